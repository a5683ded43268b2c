package media

import (
	"time"

	"github.com/pfcr/clubportal/internal/access"
)

// Kind is the type of a catalog entry.
type Kind string

const (
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
	KindFolder   Kind = "folder"
	KindImage    Kind = "image"
)

// Privacy is the visibility setting an asset carries in its source catalog.
type Privacy string

const (
	PrivacyPublic           Privacy = "public"
	PrivacyPrivate          Privacy = "private"
	PrivacyDomainRestricted Privacy = "domain-restricted"
)

// Asset is a video or drive file listed by an external catalog.
type Asset struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Kind         Kind       `json:"kind"`
	Owner        string     `json:"owner,omitempty"`
	AssignedTo   []string   `json:"assignedTo,omitempty"`
	IsExternal   bool       `json:"isExternal"`
	Privacy      Privacy    `json:"privacy"`
	Description  string     `json:"description,omitempty"`
	URL          string     `json:"url,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	Size         string     `json:"size,omitempty"`
	ModifiedTime *time.Time `json:"modifiedTime,omitempty"`
	ParentID     string     `json:"parentId,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// AccessScope implements access.Scoped. A private asset uses AssignedTo as its
// allow-list. A public asset with no assignment is assigned to everyone. Any
// unknown privacy value is treated as private.
func (a Asset) AccessScope() access.Scope {
	scope := access.Scope{Owner: a.Owner}

	switch a.Privacy {
	case PrivacyPublic:
		if len(a.AssignedTo) == 0 {
			scope.Assigned = []string{access.AssignAll}
		} else {
			scope.Assigned = a.AssignedTo
		}
	case PrivacyDomainRestricted:
		scope.Assigned = a.AssignedTo
	default:
		scope.Private = true
		scope.Authorized = a.AssignedTo
	}
	return scope
}

// Filter narrows a catalog listing. Zero fields match everything.
type Filter struct {
	Kind     Kind
	Query    string
	ParentID string
}
