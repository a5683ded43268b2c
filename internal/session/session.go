// Package session issues and validates portal sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/breakglass"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/metrics"
)

const issuer = "clubportal"

// Sign-in methods recorded on a session.
const (
	MethodPassword   = "password"
	MethodBreakGlass = "break-glass"
)

// Event is a session state change.
type Event string

const (
	EventSignedIn  Event = "signedIn"
	EventSignedOut Event = "signedOut"
)

// Listener is called synchronously after a sign-in or sign-out.
type Listener func(ctx context.Context, event Event, s *Session)

// Session is an authenticated session.
type Session struct {
	ID        string
	Token     string
	Method    string
	Identity  *identity.Identity
	ExpiresAt time.Time
}

// Authenticator verifies a login and password.
type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (*identity.Identity, error)
}

// IdentityLookup reloads the identity behind a session.
type IdentityLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Identity, error)
}

// Claims is the JWT payload of a session token.
type Claims struct {
	Method string `json:"method"`
	jwt.RegisteredClaims
}

// Option configures a Manager.
type Option func(*Manager)

// WithBreakGlass enables the break-glass login, checked before the provider.
func WithBreakGlass(a Authenticator) Option {
	return func(m *Manager) {
		m.breakGlass = a
	}
}

// WithRevocations sets the revocation store. The default is in-memory.
func WithRevocations(r RevocationStore) Option {
	return func(m *Manager) {
		m.revocations = r
	}
}

// WithMetrics records sign-in attempts on m.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager signs users in and out.
type Manager struct {
	secret      []byte
	ttl         time.Duration
	provider    Authenticator
	lookup      IdentityLookup
	breakGlass  Authenticator
	revocations RevocationStore
	metrics     *metrics.Metrics
	now         func() time.Time

	mu        sync.RWMutex
	listeners []Listener
}

// NewManager creates a session Manager signing HS256 tokens with secret.
func NewManager(secret []byte, ttl time.Duration, provider Authenticator, lookup IdentityLookup, opts ...Option) *Manager {
	m := &Manager{
		secret:      secret,
		ttl:         ttl,
		provider:    provider,
		lookup:      lookup,
		revocations: NewMemoryRevocations(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnSessionChange registers a listener for sign-in and sign-out events.
func (m *Manager) OnSessionChange(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// SignIn authenticates login and password and issues a session. The
// break-glass login, when enabled, is tried first.
func (m *Manager) SignIn(ctx context.Context, login, password string) (*Session, error) {
	login = strings.TrimSpace(login)

	var fieldErrors []apperror.FieldError
	if login == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "email is required"})
	}
	if password == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "password is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors...)
	}

	if m.breakGlass != nil {
		ident, err := m.breakGlass.Authenticate(ctx, login, password)
		switch {
		case err == nil:
			m.metrics.SignIn(MethodBreakGlass, true)
			return m.issue(ctx, ident, MethodBreakGlass)
		case !errors.Is(err, breakglass.ErrNoMatch):
			m.metrics.SignIn(MethodBreakGlass, false)
			return nil, err
		}
	}

	ident, err := m.provider.Authenticate(ctx, login, password)
	if err != nil {
		m.metrics.SignIn(MethodPassword, false)
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	m.metrics.SignIn(MethodPassword, true)
	return m.issue(ctx, ident, MethodPassword)
}

// Current validates token and returns its session with a freshly loaded
// identity. Invalid, expired or revoked tokens return apperror.ErrUnauthenticated.
func (m *Manager) Current(ctx context.Context, token string) (*Session, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperror.ErrUnauthenticated
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.ErrUnauthenticated
	}

	ident, err := m.lookup.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading session identity: %w", err)
	}

	return &Session{
		ID:        claims.ID,
		Token:     token,
		Method:    claims.Method,
		Identity:  ident,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session behind token until it would have expired.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	s, err := m.Current(ctx, token)
	if err != nil {
		return err
	}

	if err := m.revocations.Revoke(ctx, s.ID, s.ExpiresAt); err != nil {
		return err
	}

	slog.Info("signed out", "session", s.ID, "id", s.Identity.ID)
	m.notify(ctx, EventSignedOut, s)
	return nil
}

func (m *Manager) issue(ctx context.Context, ident *identity.Identity, method string) (*Session, error) {
	now := m.now()
	expires := now.Add(m.ttl)

	claims := &Claims{
		Method: method,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   ident.ID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	s := &Session{
		ID:        claims.ID,
		Token:     token,
		Method:    method,
		Identity:  ident,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	slog.Info("signed in", "session", s.ID, "id", ident.ID, "role", ident.Profile.Role, "method", method)
	m.notify(ctx, EventSignedIn, s)
	return s, nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, apperror.ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, apperror.ErrUnauthenticated
	}
	return claims, nil
}

func (m *Manager) notify(ctx context.Context, event Event, s *Session) {
	m.mu.RLock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, event, s)
	}
}
