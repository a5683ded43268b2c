package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/rbac"
)

// Identity is an authenticated account plus its profile. Credentials are held
// by the provider and never appear here.
type Identity struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	CreatedAt      time.Time `json:"createdAt"`
	Profile        Profile   `json:"profile"`
}

// Profile holds the mutable, role-dependent part of an Identity.
// Position and JerseyNumber are only meaningful for players.
type Profile struct {
	Role         rbac.Role `json:"role"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	Position     string    `json:"position,omitempty"`
	JerseyNumber *int      `json:"jerseyNumber,omitempty"`
}

// SubjectRole implements rbac.Subject. It is safe to call on a nil Identity.
func (i *Identity) SubjectRole() rbac.Role {
	if i == nil {
		return ""
	}
	return i.Profile.Role
}

// DisplayName returns the full name, falling back to the email.
func (i *Identity) DisplayName() string {
	if i.Profile.FullName != "" {
		return i.Profile.FullName
	}
	return i.Email
}

// NewUser is the data a provider needs to create an account.
type NewUser struct {
	Email    string
	Password string
	Profile  Profile
}

// normalizeProfile enforces the profile invariant: player-only fields are
// dropped for every other role.
func normalizeProfile(p Profile) Profile {
	if p.Role != rbac.RolePlayer {
		p.Position = ""
		p.JerseyNumber = nil
	}
	return p
}
