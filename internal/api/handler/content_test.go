package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfcr/clubportal/internal/api/handler"
	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/content"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/rbac"
)

func sampleItem(author uuid.UUID) *content.Item {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &content.Item{
		ID:         uuid.New(),
		Title:      "Match 12 highlights",
		Type:       content.TypeVideo,
		Date:       time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		URL:        "https://videos.club.test/12",
		AssignedTo: "players",
		CreatedBy:  author,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestContentHandler_Create(t *testing.T) {
	// Arrange
	staff := newIdentity(rbac.RoleStaff)
	var got content.NewItem
	svc := &mockContentService{createFn: func(_ context.Context, caller *identity.Identity, in content.NewItem) (*content.Item, error) {
		got = in
		return sampleItem(caller.ID), nil
	}}
	h := handler.NewContentHandler(svc)
	body := `{"title":"Match 12 highlights","type":"video","date":"2026-03-14","assignedTo":"players","isPrivate":true,"authorizedUsers":["u1"]}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/content", strings.NewReader(body)), staff)
	w := httptest.NewRecorder()

	// Act
	h.Create(w, req)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "players", got.AssignedTo)
	assert.True(t, got.IsPrivate)
	assert.Equal(t, []string{"u1"}, got.AuthorizedUsers)

	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2026-03-14", data["date"])
	assert.Equal(t, staff.ID.String(), data["createdBy"])
	assert.Equal(t, "2026-03-14T09:30:00Z", data["createdAt"])
	assert.Equal(t, []interface{}{}, data["authorizedUsers"])
}

func TestContentHandler_Create_Validation(t *testing.T) {
	svc := &mockContentService{createFn: func(context.Context, *identity.Identity, content.NewItem) (*content.Item, error) {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "assignedTo", Message: "assignedTo is required"})
	}}
	h := handler.NewContentHandler(svc)
	w := httptest.NewRecorder()

	h.Create(w, withIdentity(httptest.NewRequest(http.MethodPost, "/content", strings.NewReader(`{}`)), newIdentity(rbac.RoleStaff)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestContentHandler_List(t *testing.T) {
	jane := newIdentity(rbac.RolePlayer)
	var gotViewer *identity.Identity
	var gotFilter content.ListFilter
	svc := &mockContentService{listFn: func(_ context.Context, viewer *identity.Identity, filter content.ListFilter) ([]content.Item, error) {
		gotViewer, gotFilter = viewer, filter
		return []content.Item{*sampleItem(uuid.New())}, nil
	}}
	h := handler.NewContentHandler(svc)
	w := httptest.NewRecorder()

	h.List(w, withIdentity(httptest.NewRequest(http.MethodGet, "/content?type=video", nil), jane))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, jane, gotViewer)
	require.NotNil(t, gotFilter.Type)
	assert.Equal(t, content.TypeVideo, *gotFilter.Type)

	env := decodeEnvelope(t, w)
	assert.Len(t, env["data"], 1)
	assert.Equal(t, float64(1), env["meta"].(map[string]interface{})["total"])
}

func TestContentHandler_AuthorizedUsersShownOnlyToEditors(t *testing.T) {
	coach := newIdentity(rbac.RoleStaff)
	jane := newIdentity(rbac.RolePlayer)
	bob := newIdentity(rbac.RolePlayer)
	item := sampleItem(coach.ID)
	item.IsPrivate = true
	item.AuthorizedUsers = []string{jane.ID.String(), bob.ID.String()}
	svc := &mockContentService{getFn: func(context.Context, *identity.Identity, uuid.UUID) (*content.Item, error) {
		return item, nil
	}}
	h := handler.NewContentHandler(svc)

	tests := []struct {
		name     string
		viewer   *identity.Identity
		wantList bool
	}{
		{"creator", coach, true},
		{"admin", newIdentity(rbac.RoleAdmin), true},
		{"authorized player", jane, false},
		{"other staff", newIdentity(rbac.RoleStaff), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := item.ID.String()
			req := withURLParam(withIdentity(httptest.NewRequest(http.MethodGet, "/content/"+id, nil), tt.viewer), "id", id)
			w := httptest.NewRecorder()

			h.GetByID(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			data := decodeEnvelope(t, w)["data"].(map[string]interface{})
			users, present := data["authorizedUsers"]
			assert.Equal(t, tt.wantList, present)
			if tt.wantList {
				assert.Len(t, users, 2)
			}
			assert.Equal(t, true, data["isPrivate"])
		})
	}
}

func TestContentHandler_List_InvalidType(t *testing.T) {
	h := handler.NewContentHandler(&mockContentService{})
	w := httptest.NewRecorder()

	h.List(w, withIdentity(httptest.NewRequest(http.MethodGet, "/content?type=podcast", nil), newIdentity(rbac.RolePlayer)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestContentHandler_GetByID(t *testing.T) {
	item := sampleItem(uuid.New())
	svc := &mockContentService{getFn: func(_ context.Context, _ *identity.Identity, id uuid.UUID) (*content.Item, error) {
		if id == item.ID {
			return item, nil
		}
		return nil, apperror.ErrNotFound
	}}
	h := handler.NewContentHandler(svc)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"visible", item.ID.String(), http.StatusOK},
		{"hidden or missing", uuid.NewString(), http.StatusNotFound},
		{"invalid id", "abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(withIdentity(httptest.NewRequest(http.MethodGet, "/content/"+tt.id, nil), newIdentity(rbac.RolePlayer)), "id", tt.id)
			w := httptest.NewRecorder()

			h.GetByID(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestContentHandler_Update(t *testing.T) {
	item := sampleItem(uuid.New())
	var got content.Patch
	svc := &mockContentService{updateFn: func(_ context.Context, _ *identity.Identity, _ uuid.UUID, p content.Patch) (*content.Item, error) {
		got = p
		updated := *item
		updated.Title = *p.Title
		return &updated, nil
	}}
	h := handler.NewContentHandler(svc)
	req := httptest.NewRequest(http.MethodPatch, "/content/"+item.ID.String(), strings.NewReader(`{"title":"Renamed"}`))
	req = withURLParam(withIdentity(req, newIdentity(rbac.RoleAdmin)), "id", item.ID.String())
	w := httptest.NewRecorder()

	h.Update(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Title)
	assert.Nil(t, got.AssignedTo)
	assert.Equal(t, "Renamed", decodeEnvelope(t, w)["data"].(map[string]interface{})["title"])
}

func TestContentHandler_Update_Forbidden(t *testing.T) {
	svc := &mockContentService{updateFn: func(context.Context, *identity.Identity, uuid.UUID, content.Patch) (*content.Item, error) {
		return nil, apperror.ErrPermissionDenied
	}}
	h := handler.NewContentHandler(svc)
	id := uuid.NewString()
	req := withURLParam(withIdentity(httptest.NewRequest(http.MethodPatch, "/content/"+id, strings.NewReader(`{}`)), newIdentity(rbac.RoleStaff)), "id", id)
	w := httptest.NewRecorder()

	h.Update(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestContentHandler_Delete(t *testing.T) {
	var gotID uuid.UUID
	svc := &mockContentService{deleteFn: func(_ context.Context, _ *identity.Identity, id uuid.UUID) error {
		gotID = id
		return nil
	}}
	h := handler.NewContentHandler(svc)
	id := uuid.New()
	req := withURLParam(withIdentity(httptest.NewRequest(http.MethodDelete, "/content/"+id.String(), nil), newIdentity(rbac.RoleAdmin)), "id", id.String())
	w := httptest.NewRecorder()

	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id, gotID)
}
