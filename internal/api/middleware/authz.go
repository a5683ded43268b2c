package middleware

import (
	"net/http"

	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/rbac"
)

// RequireCapability returns middleware that rejects identities whose role does
// not grant c with 403.
func RequireCapability(c rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			ident := identity.FromContext(r.Context())
			if ident == nil {
				response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "Bearer token is required", requestID)
				return
			}

			if !rbac.Can(ident, c) {
				response.Err(w, http.StatusForbidden, response.CodeForbidden, "Insufficient permissions", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
