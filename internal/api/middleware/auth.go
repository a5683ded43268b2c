package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/session"
)

const sessionKey contextKey = "session"

// SessionResolver resolves a bearer token to a live session.
type SessionResolver interface {
	Current(ctx context.Context, token string) (*session.Session, error)
}

// Auth is middleware that extracts the bearer token from the Authorization
// header and resolves it to a session. The session identity is attached to the
// context for identity.FromContext. Missing or invalid tokens return 401.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token := BearerToken(r)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "Bearer token is required", requestID)
				return
			}

			s, err := sessions.Current(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperror.ErrUnauthenticated) {
					response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid or expired session", requestID)
					return
				}
				response.FromError(w, err, "Authentication failed", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, s)
			ctx = identity.WithIdentity(ctx, s.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetSession retrieves the authenticated Session from the request context.
func GetSession(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return s
	}
	return nil
}
