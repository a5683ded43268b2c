package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/identity"
)

const timestampLayout = "2006-01-02T15:04:05Z"

const maxBodyBytes = 1 << 20

type identityResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"emailConfirmed"`
	Role           string `json:"role"`
	FullName       string `json:"fullName"`
	Username       string `json:"username"`
	Position       string `json:"position,omitempty"`
	JerseyNumber   *int   `json:"jerseyNumber,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

func toIdentityResponse(ident *identity.Identity) identityResponse {
	return identityResponse{
		ID:             ident.ID.String(),
		Email:          ident.Email,
		EmailConfirmed: ident.EmailConfirmed,
		Role:           string(ident.Profile.Role),
		FullName:       ident.Profile.FullName,
		Username:       ident.Profile.Username,
		Position:       ident.Profile.Position,
		JerseyNumber:   ident.Profile.JerseyNumber,
		CreatedAt:      formatTime(ident.CreatedAt),
	}
}

func toIdentityResponses(idents []identity.Identity) []identityResponse {
	out := make([]identityResponse, 0, len(idents))
	for i := range idents {
		out = append(out, toIdentityResponse(&idents[i]))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// decodeJSON reads a size-limited JSON body into dst and writes a 400 on failure.
// A well-formed body carrying a value of the wrong type for a field is reported
// as a validation error naming that field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		response.FromError(w, apperror.NewValidationError(apperror.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be %s", typeErr.Field, describeKind(typeErr.Type)),
		}), "Invalid request body", requestID)
		return false
	}

	response.Err(w, http.StatusBadRequest, response.CodeInvalidJSON, "Request body must be valid JSON", requestID)
	return false
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	default:
		return "a " + t.String()
	}
}
