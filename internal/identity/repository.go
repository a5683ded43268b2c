package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrIdentityNotFound is returned when no account matches the given id.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrInvalidCredentials is returned when an email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrDuplicateEmail is returned when an account with the same email already exists.
var ErrDuplicateEmail = errors.New("a user with this email address has already been registered")

// ErrDuplicateUsername is returned when an account with the same username already exists.
var ErrDuplicateUsername = errors.New("a user with this username has already been registered")

// Directory is the public side of the identity provider, usable without a
// service-level credential.
type Directory interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
	GetUser(ctx context.Context, id uuid.UUID) (*Identity, error)
}

// AdminAPI is the privileged side of the identity provider. It is only
// available when the deployment holds the service-level credential.
type AdminAPI interface {
	CreateUser(ctx context.Context, u NewUser) (*Identity, error)
	ListUsers(ctx context.Context) ([]Identity, error)
}
