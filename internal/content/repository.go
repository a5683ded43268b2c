package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrItemNotFound is returned when a content item record is not found.
var ErrItemNotFound = errors.New("content item not found")

// Repository provides CRUD operations on content items. List returns items
// newest first by date, then by creation time.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, filter ListFilter) ([]Item, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
