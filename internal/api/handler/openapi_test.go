package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	specpkg "github.com/pfcr/clubportal/api"
	"github.com/pfcr/clubportal/internal/api/handler"
)

func TestOpenAPIHandler_ReturnsJSON(t *testing.T) {
	t.Parallel()

	yamlSpec := []byte(`openapi: "3.0.3"
info:
  title: Test API
  version: "1.0.0"
paths: {}
`)
	h, err := handler.NewOpenAPIHandler(yamlSpec, "")
	require.NoError(t, err)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "response should be valid JSON")
	assert.Equal(t, "3.0.3", result["openapi"])
	info := result["info"].(map[string]interface{})
	assert.Equal(t, "1.0.0", info["version"])
}

func TestOpenAPIHandler_StampsVersion(t *testing.T) {
	t.Parallel()

	h, err := handler.NewOpenAPIHandler([]byte("openapi: \"3.0.3\"\ninfo:\n  title: T\n  version: dev\npaths: {}\n"), "1.4.2")
	require.NoError(t, err)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "1.4.2", result["info"].(map[string]interface{})["version"])
}

func TestOpenAPIHandler_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := handler.NewOpenAPIHandler([]byte("openapi: [unclosed"), "")
	assert.Error(t, err)
}

func TestOpenAPIHandler_EmbeddedSpec(t *testing.T) {
	t.Parallel()

	h, err := handler.NewOpenAPIHandler(specpkg.OpenAPISpec, "")
	require.NoError(t, err)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	paths := result["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/users")
	assert.Contains(t, paths, "/content/{id}")
	assert.Contains(t, paths, "/media/{catalog}")
}
