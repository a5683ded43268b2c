package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfcr/clubportal/internal/api/handler"
	"github.com/pfcr/clubportal/internal/rbac"
)

func TestNavigation(t *testing.T) {
	tests := []struct {
		role        rbac.Role
		wantLanding string
		wantPaths   []string
	}{
		{rbac.RoleAdmin, "/dashboard", []string{"/dashboard", "/players", "/users", "/content", "/google-drive", "/vimeo"}},
		{rbac.RoleStaff, "/dashboard", []string{"/dashboard", "/players", "/content", "/google-drive", "/vimeo"}},
		{rbac.RolePlayer, "/me", []string{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/navigation", nil), newIdentity(tt.role))
			w := httptest.NewRecorder()

			handler.Navigation(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			data := decodeEnvelope(t, w)["data"].(map[string]interface{})
			assert.Equal(t, string(tt.role), data["role"])
			assert.Equal(t, tt.wantLanding, data["landing"])

			paths := []string{}
			for _, s := range data["sections"].([]interface{}) {
				paths = append(paths, s.(map[string]interface{})["path"].(string))
			}
			assert.Equal(t, tt.wantPaths, paths)
		})
	}
}
