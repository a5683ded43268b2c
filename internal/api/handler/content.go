package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/access"
	"github.com/pfcr/clubportal/internal/api/middleware"
	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/content"
	"github.com/pfcr/clubportal/internal/identity"
)

// ContentService is the content library as seen by the HTTP layer.
type ContentService interface {
	Create(ctx context.Context, caller *identity.Identity, in content.NewItem) (*content.Item, error)
	ListVisible(ctx context.Context, viewer *identity.Identity, filter content.ListFilter) ([]content.Item, error)
	Get(ctx context.Context, viewer *identity.Identity, id uuid.UUID) (*content.Item, error)
	Update(ctx context.Context, viewer *identity.Identity, id uuid.UUID, p content.Patch) (*content.Item, error)
	Delete(ctx context.Context, viewer *identity.Identity, id uuid.UUID) error
}

type createContentRequest struct {
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	Description     string   `json:"description"`
	URL             string   `json:"url"`
	MatchNumber     string   `json:"matchNumber"`
	Size            string   `json:"size"`
	AssignedTo      string   `json:"assignedTo"`
	IsPrivate       bool     `json:"isPrivate"`
	AuthorizedUsers []string `json:"authorizedUsers"`
}

type updateContentRequest struct {
	Title           *string   `json:"title"`
	Date            *string   `json:"date"`
	Description     *string   `json:"description"`
	URL             *string   `json:"url"`
	MatchNumber     *string   `json:"matchNumber"`
	Size            *string   `json:"size"`
	AssignedTo      *string   `json:"assignedTo"`
	IsPrivate       *bool     `json:"isPrivate"`
	AuthorizedUsers *[]string `json:"authorizedUsers"`
}

type contentResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Date            string    `json:"date"`
	Description     string    `json:"description"`
	URL             string    `json:"url,omitempty"`
	MatchNumber     string    `json:"matchNumber,omitempty"`
	Size            string    `json:"size,omitempty"`
	AssignedTo      string    `json:"assignedTo"`
	IsPrivate       bool      `json:"isPrivate"`
	AuthorizedUsers *[]string `json:"authorizedUsers,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// toContentResponse renders item for viewer. The allow-list of a private item
// is only shown to those who may edit it.
func toContentResponse(item *content.Item, viewer *identity.Identity) contentResponse {
	var users *[]string
	if access.CanModify(item, viewer) {
		list := item.AuthorizedUsers
		if list == nil {
			list = []string{}
		}
		users = &list
	}
	return contentResponse{
		ID:              item.ID.String(),
		Title:           item.Title,
		Type:            string(item.Type),
		Date:            item.Date.Format(content.DateLayout),
		Description:     item.Description,
		URL:             item.URL,
		MatchNumber:     item.MatchNumber,
		Size:            item.Size,
		AssignedTo:      item.AssignedTo,
		IsPrivate:       item.IsPrivate,
		AuthorizedUsers: users,
		CreatedBy:       item.CreatedBy.String(),
		CreatedAt:       formatTime(item.CreatedAt),
		UpdatedAt:       formatTime(item.UpdatedAt),
	}
}

// ContentHandler handles the content library endpoints.
type ContentHandler struct {
	service ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(service ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// Create handles POST /content.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createContentRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	caller := identity.FromContext(r.Context())
	item, err := h.service.Create(r.Context(), caller, content.NewItem{
		Title:           req.Title,
		Type:            req.Type,
		Date:            req.Date,
		Description:     req.Description,
		URL:             req.URL,
		MatchNumber:     req.MatchNumber,
		Size:            req.Size,
		AssignedTo:      req.AssignedTo,
		IsPrivate:       req.IsPrivate,
		AuthorizedUsers: req.AuthorizedUsers,
	})
	if err != nil {
		response.FromError(w, err, "Failed to create content", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toContentResponse(item, caller), requestID)
}

// List handles GET /content with an optional type filter.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var filter content.ListFilter
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := content.Type(raw)
		if t != content.TypeVideo && t != content.TypeDocument {
			response.FromError(w, apperror.NewValidationError(apperror.FieldError{
				Field:   "type",
				Message: "type must be \"video\" or \"document\"",
			}), "Failed to list content", requestID)
			return
		}
		filter.Type = &t
	}

	viewer := identity.FromContext(r.Context())
	items, err := h.service.ListVisible(r.Context(), viewer, filter)
	if err != nil {
		response.FromError(w, err, "Failed to list content", requestID)
		return
	}

	out := make([]contentResponse, 0, len(items))
	for i := range items {
		out = append(out, toContentResponse(&items[i], viewer))
	}
	response.SuccessList(w, http.StatusOK, out, len(out), requestID)
}

// GetByID handles GET /content/{id}.
func (h *ContentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	viewer := identity.FromContext(r.Context())
	item, err := h.service.Get(r.Context(), viewer, id)
	if err != nil {
		response.FromError(w, err, "Failed to get content", requestID)
		return
	}

	response.Success(w, http.StatusOK, toContentResponse(item, viewer), requestID)
}

// Update handles PATCH /content/{id}.
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	var req updateContentRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	viewer := identity.FromContext(r.Context())
	item, err := h.service.Update(r.Context(), viewer, id, content.Patch{
		Title:           req.Title,
		Date:            req.Date,
		Description:     req.Description,
		URL:             req.URL,
		MatchNumber:     req.MatchNumber,
		Size:            req.Size,
		AssignedTo:      req.AssignedTo,
		IsPrivate:       req.IsPrivate,
		AuthorizedUsers: req.AuthorizedUsers,
	})
	if err != nil {
		response.FromError(w, err, "Failed to update content", requestID)
		return
	}

	response.Success(w, http.StatusOK, toContentResponse(item, viewer), requestID)
}

// Delete handles DELETE /content/{id}.
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, requestID)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.FromContext(r.Context()), id); err != nil {
		response.FromError(w, err, "Failed to delete content", requestID)
		return
	}

	response.NoContent(w)
}

func parseID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidID, "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
