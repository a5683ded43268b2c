package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pfcr/clubportal/internal/api/middleware"
	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/media"
)

// MediaService lists catalog assets.
type MediaService interface {
	ListVisible(ctx context.Context, viewer *identity.Identity, name string, filter media.Filter) ([]media.Asset, error)
}

// MediaHandler handles GET /media/{catalog}.
type MediaHandler struct {
	service MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(service MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// List handles GET /media/{catalog}. Optional kind, q and parentId parameters
// narrow the listing before the access rules apply.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	q := r.URL.Query()
	filter := media.Filter{
		Kind:     media.Kind(q.Get("kind")),
		Query:    q.Get("q"),
		ParentID: q.Get("parentId"),
	}

	assets, err := h.service.ListVisible(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "catalog"), filter)
	if err != nil {
		response.FromError(w, err, "Failed to list media", requestID)
		return
	}

	response.SuccessList(w, http.StatusOK, assets, len(assets), requestID)
}
