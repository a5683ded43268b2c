package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/access"
)

// Type is the kind of a content item.
type Type string

const (
	TypeVideo    Type = "video"
	TypeDocument Type = "document"
)

// DateLayout is the wire format of Item.Date.
const DateLayout = "2006-01-02"

// Item represents a row in the content_items table.
type Item struct {
	ID          uuid.UUID
	Title       string
	Type        Type
	Date        time.Time
	Description string
	URL         string
	MatchNumber string
	Size        string
	// AssignedTo is "all", "players", "staff" or an identity id.
	AssignedTo      string
	IsPrivate       bool
	AuthorizedUsers []string
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccessScope implements access.Scoped.
func (i Item) AccessScope() access.Scope {
	scope := access.Scope{
		Private:  i.IsPrivate,
		Assigned: []string{i.AssignedTo},
	}
	if i.CreatedBy != uuid.Nil {
		scope.Owner = i.CreatedBy.String()
	}
	if i.IsPrivate {
		scope.Authorized = i.AuthorizedUsers
	}
	return scope
}

// ListFilter holds optional filters for listing items.
type ListFilter struct {
	Type *Type
}

// UpdateFields holds user-updatable fields. Nil fields are not updated.
type UpdateFields struct {
	Title           *string
	Description     *string
	Date            *time.Time
	URL             *string
	MatchNumber     *string
	Size            *string
	AssignedTo      *string
	IsPrivate       *bool
	AuthorizedUsers *[]string
}
