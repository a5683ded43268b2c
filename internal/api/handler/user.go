package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/api/middleware"
	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/provision"
	"github.com/pfcr/clubportal/internal/rbac"
)

// UserDirectory is the read side of the identity store used by the user endpoints.
type UserDirectory interface {
	ListIdentities(ctx context.Context, caller *identity.Identity) ([]identity.Identity, error)
	ListPlayers(ctx context.Context, caller *identity.Identity, query string) ([]identity.Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Identity, error)
}

// AccountCreator provisions new accounts.
type AccountCreator interface {
	CreateAccount(ctx context.Context, caller *identity.Identity, req provision.Request) (*identity.Identity, error)
}

// UserHandler handles user and roster endpoints.
type UserHandler struct {
	directory   UserDirectory
	provisioner AccountCreator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(directory UserDirectory, provisioner AccountCreator) *UserHandler {
	return &UserHandler{
		directory:   directory,
		provisioner: provisioner,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req provision.Request
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	created, err := h.provisioner.CreateAccount(r.Context(), identity.FromContext(r.Context()), req)
	if err != nil {
		response.FromError(w, err, "Failed to create user", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toIdentityResponse(created), requestID)
}

// List handles GET /users. The optional search parameter filters on full
// name, username, role and email.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	idents, err := h.directory.ListIdentities(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		response.FromError(w, err, "Failed to list users", requestID)
		return
	}

	idents = identity.Search(idents, r.URL.Query().Get("search"))
	response.SuccessList(w, http.StatusOK, toIdentityResponses(idents), len(idents), requestID)
}

// GetByID handles GET /users/{id}. Callers may read their own account;
// reading anyone else's needs ViewDashboard.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidID, "id must be a valid UUID", requestID)
		return
	}

	caller := identity.FromContext(r.Context())
	if caller == nil || (caller.ID != id && !rbac.Can(caller, rbac.ViewDashboard)) {
		response.Err(w, http.StatusForbidden, response.CodeForbidden, "Insufficient permissions", requestID)
		return
	}

	ident, err := h.directory.FindByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toIdentityResponse(ident), requestID)
}

// Players handles GET /players. The optional q parameter filters on full
// name, position and jersey number.
func (h *UserHandler) Players(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	players, err := h.directory.ListPlayers(r.Context(), identity.FromContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		response.FromError(w, err, "Failed to list players", requestID)
		return
	}

	response.SuccessList(w, http.StatusOK, toIdentityResponses(players), len(players), requestID)
}
