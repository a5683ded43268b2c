// Package breakglass provides an emergency admin sign-in that works without
// the identity provider. It is disabled unless explicitly configured, and every
// use is logged at WARN.
package breakglass

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/k8s"
	"github.com/pfcr/clubportal/internal/rbac"
)

// ErrNoMatch is returned by Authenticate when the login is not the
// break-glass username; the caller should fall through to the provider.
var ErrNoMatch = errors.New("not a break-glass login")

// Secret keys read by SecretSource.
const (
	SecretKeyUsername     = "username"
	SecretKeyPasswordHash = "passwordHash"
	SecretKeyFullName     = "fullName"
)

const defaultFullName = "Break-glass Administrator"

// Credential is the configured break-glass login.
type Credential struct {
	Username     string
	PasswordHash string
	FullName     string
}

// Source loads the break-glass credential.
type Source interface {
	Load(ctx context.Context) (Credential, error)
}

// EnvSource serves a credential taken from the environment.
type EnvSource struct {
	Credential Credential
}

// Load returns the configured credential.
func (s EnvSource) Load(_ context.Context) (Credential, error) {
	return s.Credential, nil
}

// SecretSource reads the credential from a Kubernetes Secret.
type SecretSource struct {
	Reader    k8s.SecretReader
	Namespace string
	Name      string
}

// Load reads the Secret and maps its keys onto a Credential.
func (s SecretSource) Load(ctx context.Context) (Credential, error) {
	data, err := s.Reader.GetSecret(ctx, s.Namespace, s.Name)
	if err != nil {
		return Credential{}, fmt.Errorf("reading break-glass secret: %w", err)
	}
	return Credential{
		Username:     string(data[SecretKeyUsername]),
		PasswordHash: string(data[SecretKeyPasswordHash]),
		FullName:     string(data[SecretKeyFullName]),
	}, nil
}

// Provider authenticates the break-glass login.
type Provider struct {
	cred     Credential
	identity identity.Identity
}

// New loads the credential from src and validates it.
func New(ctx context.Context, src Source) (*Provider, error) {
	cred, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	cred.Username = strings.TrimSpace(cred.Username)
	cred.FullName = strings.TrimSpace(cred.FullName)
	if cred.Username == "" {
		return nil, errors.New("break-glass username is empty")
	}
	if _, err := bcrypt.Cost([]byte(cred.PasswordHash)); err != nil {
		return nil, fmt.Errorf("break-glass password hash is not a bcrypt hash: %w", err)
	}
	if cred.FullName == "" {
		cred.FullName = defaultFullName
	}

	return &Provider{
		cred: cred,
		identity: identity.Identity{
			ID:             IdentityID(cred.Username),
			Email:          cred.Username,
			EmailConfirmed: true,
			CreatedAt:      time.Now().UTC(),
			Profile: identity.Profile{
				Role:     rbac.RoleAdmin,
				FullName: cred.FullName,
				Username: cred.Username,
			},
		},
	}, nil
}

// IdentityID derives the stable id of the break-glass identity for username.
func IdentityID(username string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("clubportal:break-glass:"+username))
}

// Identity returns a copy of the synthetic admin identity.
func (p *Provider) Identity() *identity.Identity {
	ident := p.identity
	return &ident
}

// Authenticate checks login and password against the credential. A login
// other than the break-glass username returns ErrNoMatch; a wrong password
// returns identity.ErrInvalidCredentials.
func (p *Provider) Authenticate(_ context.Context, login, password string) (*identity.Identity, error) {
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(login)), []byte(p.cred.Username)) != 1 {
		return nil, ErrNoMatch
	}

	if bcrypt.CompareHashAndPassword([]byte(p.cred.PasswordHash), []byte(password)) != nil {
		slog.Warn("break-glass sign-in rejected", "username", p.cred.Username)
		return nil, identity.ErrInvalidCredentials
	}

	slog.Warn("break-glass sign-in", "username", p.cred.Username, "id", p.identity.ID)
	return p.Identity(), nil
}
