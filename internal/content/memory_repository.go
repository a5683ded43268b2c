package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository for development and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Item
	now   func() time.Time
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a copy of item and fills in its id and timestamps.
func (m *MemoryRepository) Create(_ context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item.ID = uuid.New()
	item.CreatedAt = m.now()
	item.UpdatedAt = item.CreatedAt
	if item.AuthorizedUsers == nil {
		item.AuthorizedUsers = []string{}
	}
	m.items = append(m.items, cloneItem(*item))
	return nil
}

// GetByID returns the item with the given id.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		item := cloneItem(m.items[i])
		return &item, nil
	}
	return nil, ErrItemNotFound
}

// List returns matching items newest first.
func (m *MemoryRepository) List(_ context.Context, filter ListFilter) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Item, 0, len(m.items))
	for _, item := range m.items {
		if filter.Type != nil && item.Type != *filter.Type {
			continue
		}
		out = append(out, cloneItem(item))
	}

	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].Date.Equal(out[b].Date) {
			return out[a].Date.After(out[b].Date)
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

// Update applies the non-nil fields to the stored item.
func (m *MemoryRepository) Update(_ context.Context, id uuid.UUID, fields UpdateFields) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	item := &m.items[i]
	if fields.Title != nil {
		item.Title = *fields.Title
	}
	if fields.Description != nil {
		item.Description = *fields.Description
	}
	if fields.Date != nil {
		item.Date = *fields.Date
	}
	if fields.URL != nil {
		item.URL = *fields.URL
	}
	if fields.MatchNumber != nil {
		item.MatchNumber = *fields.MatchNumber
	}
	if fields.Size != nil {
		item.Size = *fields.Size
	}
	if fields.AssignedTo != nil {
		item.AssignedTo = *fields.AssignedTo
	}
	if fields.IsPrivate != nil {
		item.IsPrivate = *fields.IsPrivate
	}
	if fields.AuthorizedUsers != nil {
		item.AuthorizedUsers = append([]string{}, (*fields.AuthorizedUsers)...)
	}
	item.UpdatedAt = m.now()

	updated := cloneItem(*item)
	return &updated, nil
}

// Delete removes the item with the given id.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

func (m *MemoryRepository) indexOf(id uuid.UUID) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItem(item Item) Item {
	item.AuthorizedUsers = append([]string{}, item.AuthorizedUsers...)
	return item
}
