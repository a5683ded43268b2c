package handler

import (
	"net/http"

	"github.com/pfcr/clubportal/internal/api/middleware"
	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/navigation"
	"github.com/pfcr/clubportal/internal/rbac"
)

type sectionResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type navigationResponse struct {
	Role     string            `json:"role"`
	Landing  string            `json:"landing"`
	Sections []sectionResponse `json:"sections"`
}

// Navigation handles GET /navigation: the sections the caller's role may open.
func Navigation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	role := rbac.Resolve(identity.FromContext(r.Context()))
	sections := navigation.VisibleSections(role)

	resp := navigationResponse{
		Role:     string(role),
		Landing:  navigation.Landing(role),
		Sections: make([]sectionResponse, 0, len(sections)),
	}
	for _, s := range sections {
		resp.Sections = append(resp.Sections, sectionResponse{Name: s.Name, Path: s.Path})
	}

	response.Success(w, http.StatusOK, resp, requestID)
}
