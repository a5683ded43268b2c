// Package rbac maps portal roles to the capabilities they grant.
package rbac

// Role is the authorization class of an account.
type Role string

const (
	RolePlayer Role = "player"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePlayer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a stored role value into a Role. Only the exact lowercase
// names match; anything else, including "Admin" or " admin", resolves to
// RolePlayer with ok false.
func ParseRole(raw string) (role Role, ok bool) {
	r := Role(raw)
	if !r.Valid() {
		return RolePlayer, false
	}
	return r, true
}

// Capability is a named permission gating an operation or a section.
type Capability string

const (
	ViewDashboard      Capability = "viewDashboard"
	ManageUsers        Capability = "manageUsers"
	ManageContent      Capability = "manageContent"
	ManageMediaCatalog Capability = "manageMediaCatalog"
)

// Set is an immutable-by-convention set of capabilities.
type Set map[Capability]struct{}

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities in canonical order.
func (s Set) List() []Capability {
	out := make([]Capability, 0, len(s))
	for _, c := range allCapabilities {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

var allCapabilities = []Capability{ViewDashboard, ManageUsers, ManageContent, ManageMediaCatalog}

var capabilityTable = map[Role][]Capability{
	RoleAdmin: allCapabilities,
	RoleStaff: {ViewDashboard, ManageContent, ManageMediaCatalog},
	// Players only see their own profile and assigned content.
	RolePlayer: {},
}

// CapabilitiesFor returns the capability set granted to role. Unknown roles
// get the empty set. A fresh Set is returned on every call.
func CapabilitiesFor(role Role) Set {
	caps := capabilityTable[role]
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Subject is anything carrying a role, typically an authenticated identity.
// Implementations must tolerate a nil receiver.
type Subject interface {
	SubjectRole() Role
}

// Resolve derives the effective role of s. It never errors: a nil subject or
// an unrecognized role degrades to RolePlayer, never to a more privileged role.
func Resolve(s Subject) Role {
	if s == nil {
		return RolePlayer
	}
	r := s.SubjectRole()
	if !r.Valid() {
		return RolePlayer
	}
	return r
}

// Can reports whether s holds capability c.
func Can(s Subject, c Capability) bool {
	return CapabilitiesFor(Resolve(s)).Has(c)
}
