package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/identity"
)

// Error codes returned by the API.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidJSON   = "INVALID_JSON"
	CodeInvalidID     = "INVALID_ID"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeProvisioning  = "PROVISIONING_FAILED"
	CodeNotConfigured = "NOT_CONFIGURED"
	CodeInternal      = "INTERNAL_ERROR"
)

// FromError maps a service error onto the error envelope. Unknown errors are
// logged and reported as a 500 with fallback as the message.
func FromError(w http.ResponseWriter, err error, fallback string, requestID string) {
	if ve, ok := apperror.IsValidation(err); ok {
		ErrWithDetails(w, http.StatusBadRequest, CodeValidation, "Input validation failed", ve.Fields, requestID)
		return
	}
	if pe, ok := apperror.IsProvisioning(err); ok {
		Err(w, http.StatusConflict, CodeProvisioning, pe.Message, requestID)
		return
	}

	var ce *apperror.ConfigurationError
	switch {
	case errors.As(err, &ce):
		slog.Warn("operation needs missing configuration", "setting", ce.Setting, "requestId", requestID)
		Err(w, http.StatusServiceUnavailable, CodeNotConfigured, ce.Error(), requestID)
	case errors.Is(err, apperror.ErrUnauthenticated):
		Err(w, http.StatusUnauthorized, CodeUnauthorized, "A valid session is required", requestID)
	case errors.Is(err, identity.ErrInvalidCredentials):
		Err(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password", requestID)
	case errors.Is(err, apperror.ErrPermissionDenied):
		Err(w, http.StatusForbidden, CodeForbidden, "Insufficient permissions", requestID)
	case errors.Is(err, apperror.ErrNotFound):
		Err(w, http.StatusNotFound, CodeNotFound, "Resource not found", requestID)
	default:
		slog.Error(fallback, "error", err, "requestId", requestID)
		Err(w, http.StatusInternalServerError, CodeInternal, fallback, requestID)
	}
}
