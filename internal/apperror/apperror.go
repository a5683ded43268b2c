// Package apperror defines the error taxonomy shared by the portal services.
// Services return these errors; the HTTP layer maps them to status codes.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPermissionDenied is returned when the caller lacks the capability an operation requires.
var ErrPermissionDenied = errors.New("permission denied")

// ErrNotFound is returned when a lookup by id has no match, or when the match
// is not visible to the caller.
var ErrNotFound = errors.New("not found")

// ErrUnauthenticated is returned when no valid session is present.
var ErrUnauthenticated = errors.New("unauthenticated")

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports one or more invalid input fields. Operations that
// return it have not applied any part of the request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from a list of field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// Has reports whether the given field is among the offending fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ProvisioningError is returned when the identity provider rejects an
// account operation. Message carries the provider's explanation.
type ProvisioningError struct {
	Message string
	Err     error
}

func (e *ProvisioningError) Error() string {
	return "provisioning failed: " + e.Message
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when a privileged operation runs without the
// credential it needs. It is distinct from ErrPermissionDenied: the caller may
// be allowed, the deployment is not set up for it.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("not configured: %s is required for this operation", e.Setting)
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsProvisioning reports whether err is a *ProvisioningError and returns it.
func IsProvisioning(err error) (*ProvisioningError, bool) {
	var pe *ProvisioningError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsConfiguration reports whether err is a *ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
