package handler

import (
	"context"
	"net/http"

	"github.com/pfcr/clubportal/internal/api/middleware"
	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/navigation"
	"github.com/pfcr/clubportal/internal/rbac"
	"github.com/pfcr/clubportal/internal/session"
)

// SessionService signs users in and out.
type SessionService interface {
	SignIn(ctx context.Context, login, password string) (*session.Session, error)
	SignOut(ctx context.Context, token string) error
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token        string            `json:"token,omitempty"`
	ExpiresAt    string            `json:"expiresAt"`
	Method       string            `json:"method"`
	Identity     identityResponse  `json:"identity"`
	Capabilities []rbac.Capability `json:"capabilities"`
	Landing      string            `json:"landing"`
}

// AuthHandler handles the /auth endpoints.
type AuthHandler struct {
	sessions SessionService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// SignIn handles POST /auth/sign-in.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req signInRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	s, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(w, err, "Failed to sign in", requestID)
		return
	}

	resp := toSessionResponse(s)
	resp.Token = s.Token
	response.Success(w, http.StatusOK, resp, requestID)
}

// SignOut handles POST /auth/sign-out.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.sessions.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		response.FromError(w, err, "Failed to sign out", requestID)
		return
	}
	response.NoContent(w)
}

// Session handles GET /auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	s := middleware.GetSession(r.Context())
	if s == nil {
		response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "Bearer token is required", requestID)
		return
	}
	response.Success(w, http.StatusOK, toSessionResponse(s), requestID)
}

func toSessionResponse(s *session.Session) sessionResponse {
	role := rbac.Resolve(s.Identity)
	return sessionResponse{
		ExpiresAt:    formatTime(s.ExpiresAt),
		Method:       s.Method,
		Identity:     toIdentityResponse(s.Identity),
		Capabilities: rbac.CapabilitiesFor(role).List(),
		Landing:      navigation.Landing(role),
	}
}
