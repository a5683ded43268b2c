// Package access decides which content items and media assets a viewer may see.
//
// Rules are evaluated in order and the first match wins:
//
//  1. admins see everything;
//  2. the owner always sees their own item, private or not;
//  3. a private item is visible only to its authorized users;
//  4. "all" is visible to everyone;
//  5. "players" is visible to players;
//  6. "staff" is visible to staff;
//  7. any other value is an identity id and matches only that viewer;
//  8. nothing else is visible.
//
// Every failure path hides the item.
package access

import (
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/rbac"
)

// Assignment keywords. Any other assignment value is an identity id.
const (
	AssignAll     = "all"
	AssignPlayers = "players"
	AssignStaff   = "staff"
)

// Scope is the normalized visibility data of an item.
type Scope struct {
	// Owner is the identity id of the creator, empty when unknown.
	Owner string
	// Private switches evaluation to the Authorized allow-list.
	Private    bool
	Authorized []string
	// Assigned holds assignment values; a match on any of them grants access.
	Assigned []string
}

// Scoped is implemented by every item the controller can evaluate.
type Scoped interface {
	AccessScope() Scope
}

// IsVisible reports whether viewer may see item.
func IsVisible(item Scoped, viewer *identity.Identity) bool {
	if item == nil || viewer == nil {
		return false
	}

	role := rbac.Resolve(viewer)
	if role == rbac.RoleAdmin {
		return true
	}

	scope := item.AccessScope()
	viewerID := viewer.ID.String()

	if scope.Owner != "" && scope.Owner == viewerID {
		return true
	}

	if scope.Private {
		return contains(scope.Authorized, viewerID)
	}

	for _, a := range scope.Assigned {
		if assignmentMatches(a, role, viewerID) {
			return true
		}
	}
	return false
}

// FilterVisible returns the items viewer may see, in input order.
func FilterVisible[T Scoped](items []T, viewer *identity.Identity) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if IsVisible(item, viewer) {
			out = append(out, item)
		}
	}
	return out
}

// CanModify reports whether viewer may edit or delete item: its owner and
// admins only.
func CanModify(item Scoped, viewer *identity.Identity) bool {
	if item == nil || viewer == nil {
		return false
	}
	if rbac.Resolve(viewer) == rbac.RoleAdmin {
		return true
	}
	owner := item.AccessScope().Owner
	return owner != "" && owner == viewer.ID.String()
}

func assignmentMatches(assigned string, role rbac.Role, viewerID string) bool {
	switch assigned {
	case AssignAll:
		return true
	case AssignPlayers:
		return role == rbac.RolePlayer
	case AssignStaff:
		return role == rbac.RoleStaff
	case "":
		return false
	default:
		return assigned == viewerID
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
