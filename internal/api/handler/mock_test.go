package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pfcr/clubportal/internal/content"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/k8s"
	"github.com/pfcr/clubportal/internal/media"
	"github.com/pfcr/clubportal/internal/provision"
	"github.com/pfcr/clubportal/internal/rbac"
	"github.com/pfcr/clubportal/internal/session"
)

// --- Mock HealthChecker ---

type mockHealthChecker struct {
	status k8s.ConnectivityStatus
}

func (m *mockHealthChecker) CheckConnectivity(_ context.Context) k8s.ConnectivityStatus {
	return m.status
}

// --- Mock DBPinger ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

// --- Mock SessionService ---

type mockSessionService struct {
	signInFn  func(ctx context.Context, login, password string) (*session.Session, error)
	signOutFn func(ctx context.Context, token string) error
}

func (m *mockSessionService) SignIn(ctx context.Context, login, password string) (*session.Session, error) {
	return m.signInFn(ctx, login, password)
}

func (m *mockSessionService) SignOut(ctx context.Context, token string) error {
	return m.signOutFn(ctx, token)
}

// --- Mock UserDirectory ---

type mockDirectory struct {
	listFn    func(ctx context.Context, caller *identity.Identity) ([]identity.Identity, error)
	playersFn func(ctx context.Context, caller *identity.Identity, query string) ([]identity.Identity, error)
	findFn    func(ctx context.Context, id uuid.UUID) (*identity.Identity, error)
}

func (m *mockDirectory) ListIdentities(ctx context.Context, caller *identity.Identity) ([]identity.Identity, error) {
	return m.listFn(ctx, caller)
}

func (m *mockDirectory) ListPlayers(ctx context.Context, caller *identity.Identity, query string) ([]identity.Identity, error) {
	return m.playersFn(ctx, caller, query)
}

func (m *mockDirectory) FindByID(ctx context.Context, id uuid.UUID) (*identity.Identity, error) {
	return m.findFn(ctx, id)
}

// --- Mock AccountCreator ---

type mockCreator struct {
	createFn func(ctx context.Context, caller *identity.Identity, req provision.Request) (*identity.Identity, error)
}

func (m *mockCreator) CreateAccount(ctx context.Context, caller *identity.Identity, req provision.Request) (*identity.Identity, error) {
	return m.createFn(ctx, caller, req)
}

// --- Mock ContentService ---

type mockContentService struct {
	createFn func(ctx context.Context, caller *identity.Identity, in content.NewItem) (*content.Item, error)
	listFn   func(ctx context.Context, viewer *identity.Identity, filter content.ListFilter) ([]content.Item, error)
	getFn    func(ctx context.Context, viewer *identity.Identity, id uuid.UUID) (*content.Item, error)
	updateFn func(ctx context.Context, viewer *identity.Identity, id uuid.UUID, p content.Patch) (*content.Item, error)
	deleteFn func(ctx context.Context, viewer *identity.Identity, id uuid.UUID) error
}

func (m *mockContentService) Create(ctx context.Context, caller *identity.Identity, in content.NewItem) (*content.Item, error) {
	return m.createFn(ctx, caller, in)
}

func (m *mockContentService) ListVisible(ctx context.Context, viewer *identity.Identity, filter content.ListFilter) ([]content.Item, error) {
	return m.listFn(ctx, viewer, filter)
}

func (m *mockContentService) Get(ctx context.Context, viewer *identity.Identity, id uuid.UUID) (*content.Item, error) {
	return m.getFn(ctx, viewer, id)
}

func (m *mockContentService) Update(ctx context.Context, viewer *identity.Identity, id uuid.UUID, p content.Patch) (*content.Item, error) {
	return m.updateFn(ctx, viewer, id, p)
}

func (m *mockContentService) Delete(ctx context.Context, viewer *identity.Identity, id uuid.UUID) error {
	return m.deleteFn(ctx, viewer, id)
}

// --- Mock MediaService ---

type mockMediaService struct {
	listFn func(ctx context.Context, viewer *identity.Identity, name string, filter media.Filter) ([]media.Asset, error)
}

func (m *mockMediaService) ListVisible(ctx context.Context, viewer *identity.Identity, name string, filter media.Filter) ([]media.Asset, error) {
	return m.listFn(ctx, viewer, name, filter)
}

// --- Helpers ---

func newIdentity(role rbac.Role) *identity.Identity {
	return &identity.Identity{
		ID:      uuid.New(),
		Email:   string(role) + "@club.test",
		Profile: identity.Profile{Role: role, FullName: "Test " + string(role), Username: string(role)},
	}
}

// withIdentity attaches ident to the request the way the auth middleware does.
func withIdentity(req *http.Request, ident *identity.Identity) *http.Request {
	return req.WithContext(identity.WithIdentity(req.Context(), ident))
}

// withURLParam sets a chi route parameter on req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	apiErr, ok := decodeEnvelope(t, w)["error"].(map[string]interface{})
	require.True(t, ok, "expected an error envelope, got %s", w.Body.String())
	return apiErr["code"].(string)
}
