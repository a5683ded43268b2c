// Package identity holds account records and resolves the authenticated identity.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/rbac"
)

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// FromContext retrieves the authenticated identity from ctx.
func FromContext(ctx context.Context) *Identity {
	if ident, ok := ctx.Value(identityKey).(*Identity); ok {
		return ident
	}
	return nil
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithAdminAPI enables privileged operations backed by the given provider API.
func WithAdminAPI(admin AdminAPI) StoreOption {
	return func(s *Store) {
		s.admin = admin
	}
}

// WithListCache puts a cache in front of ListIdentities.
func WithListCache(cache ListCache) StoreOption {
	return func(s *Store) {
		s.cache = cache
	}
}

// WithLocalIdentity registers an identity that is resolved locally by
// FindByID without contacting the provider. It is never listed.
func WithLocalIdentity(ident *Identity) StoreOption {
	return func(s *Store) {
		if ident != nil {
			s.local[ident.ID] = ident
		}
	}
}

// Store is the single owner of identity reads. All listing goes through it so
// that cache invalidation has one place to happen.
type Store struct {
	directory Directory
	admin     AdminAPI
	cache     ListCache
	local     map[uuid.UUID]*Identity

	// generation advances on every Invalidate in this process.
	generation atomic.Int64
}

// NewStore creates a Store over the given provider directory.
func NewStore(directory Directory, opts ...StoreOption) *Store {
	s := &Store{
		directory: directory,
		local:     make(map[uuid.UUID]*Identity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AdminAPI returns the privileged provider API, or a ConfigurationError when
// the deployment has no service-level credential.
func (s *Store) AdminAPI() (AdminAPI, error) {
	if s.admin == nil {
		return nil, &apperror.ConfigurationError{Setting: "ADMIN_DATABASE_URL"}
	}
	return s.admin, nil
}

// CurrentIdentity returns the identity authenticated for the request in ctx, or nil.
func (s *Store) CurrentIdentity(ctx context.Context) *Identity {
	return FromContext(ctx)
}

// ListIdentities returns every provider account ordered by creation time.
// The caller must hold ManageUsers.
func (s *Store) ListIdentities(ctx context.Context, caller *Identity) ([]Identity, error) {
	if !rbac.Can(caller, rbac.ManageUsers) {
		return nil, apperror.ErrPermissionDenied
	}
	return s.listAll(ctx)
}

// ListPlayers returns player accounts whose full name, position or jersey
// number contains query (case-insensitive). The caller must hold ViewDashboard.
func (s *Store) ListPlayers(ctx context.Context, caller *Identity, query string) ([]Identity, error) {
	if !rbac.Can(caller, rbac.ViewDashboard) {
		return nil, apperror.ErrPermissionDenied
	}

	all, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	players := make([]Identity, 0, len(all))
	for _, ident := range all {
		if ident.Profile.Role != rbac.RolePlayer {
			continue
		}
		if q == "" || matchesPlayer(&ident, q) {
			players = append(players, ident)
		}
	}
	return players, nil
}

// FindByID looks up a single identity. Local identities resolve without the provider.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*Identity, error) {
	if ident, ok := s.local[id]; ok {
		copied := *ident
		return &copied, nil
	}

	ident, err := s.directory.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("fetching identity: %w", err)
	}
	return ident, nil
}

// Invalidate drops any cached listing. It is called after every successful
// provisioning so that new accounts are immediately enumerable.
func (s *Store) Invalidate(ctx context.Context) error {
	s.generation.Add(1)
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *Store) listAll(ctx context.Context) ([]Identity, error) {
	admin, err := s.AdminAPI()
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		idents, err := admin.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing identities: %w", err)
		}
		return idents, nil
	}

	if idents, ok := s.cache.Get(ctx); ok {
		return idents, nil
	}

	// Both generations are read before loading; a listing taken across an
	// Invalidate must not be cached.
	localGen := s.generation.Load()
	cacheGen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		slog.Warn("identity cache generation unavailable", "error", genErr)
	}

	idents, err := admin.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing identities: %w", err)
	}

	if genErr == nil && s.generation.Load() == localGen {
		s.cache.Set(ctx, cacheGen, idents)
	}
	slog.Debug("identity listing loaded from provider", "count", len(idents))

	return idents, nil
}

// Search filters identities by a case-insensitive term matched against full
// name, username, role and email. Input order is preserved.
func Search(idents []Identity, term string) []Identity {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return idents
	}

	out := make([]Identity, 0, len(idents))
	for _, ident := range idents {
		p := ident.Profile
		if strings.Contains(strings.ToLower(p.FullName), t) ||
			strings.Contains(strings.ToLower(p.Username), t) ||
			strings.Contains(strings.ToLower(string(p.Role)), t) ||
			strings.Contains(strings.ToLower(ident.Email), t) {
			out = append(out, ident)
		}
	}
	return out
}

func matchesPlayer(ident *Identity, q string) bool {
	p := ident.Profile
	if strings.Contains(strings.ToLower(p.FullName), q) || strings.Contains(strings.ToLower(p.Position), q) {
		return true
	}
	return p.JerseyNumber != nil && strings.Contains(strconv.Itoa(*p.JerseyNumber), q)
}
