// Package content stores documents and videos distributed to club members and
// serves each viewer only what the access rules let them see.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pfcr/clubportal/internal/access"
	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/metrics"
	"github.com/pfcr/clubportal/internal/rbac"
)

// Service provides content library operations.
type Service struct {
	repo    Repository
	metrics *metrics.Metrics
}

// NewService creates a new content Service. m may be nil.
func NewService(repo Repository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// Create stores a new item authored by caller, who must hold ManageContent.
func (s *Service) Create(ctx context.Context, caller *identity.Identity, in NewItem) (*Item, error) {
	if !rbac.Can(caller, rbac.ManageContent) {
		return nil, apperror.ErrPermissionDenied
	}

	item, fieldErrors := ValidateNewItem(in)
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors...)
	}
	item.CreatedBy = caller.ID

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating content item: %w", err)
	}

	slog.Info("content item created",
		"id", item.ID,
		"type", item.Type,
		"assignedTo", item.AssignedTo,
		"private", item.IsPrivate,
		"by", caller.ID,
	)
	return item, nil
}

// ListVisible returns the items viewer may see, in repository order.
func (s *Service) ListVisible(ctx context.Context, viewer *identity.Identity, filter ListFilter) ([]Item, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing content items: %w", err)
	}

	visible := access.FilterVisible(items, viewer)
	s.metrics.VisibilityDecisions("content", len(visible), len(items)-len(visible))
	return visible, nil
}

// Get returns a single item. Items the viewer may not see are reported as
// not found so their existence is not disclosed.
func (s *Service) Get(ctx context.Context, viewer *identity.Identity, id uuid.UUID) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("fetching content item: %w", err)
	}

	if !access.IsVisible(item, viewer) {
		return nil, apperror.ErrNotFound
	}
	return item, nil
}

// Update edits an item. Only its creator and admins may do so, and only while
// they hold ManageContent.
func (s *Service) Update(ctx context.Context, viewer *identity.Identity, id uuid.UUID, p Patch) (*Item, error) {
	item, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(viewer, rbac.ManageContent) || !access.CanModify(item, viewer) {
		return nil, apperror.ErrPermissionDenied
	}

	fields, fieldErrors := ValidatePatch(p)
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors...)
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("updating content item: %w", err)
	}
	return updated, nil
}

// Delete removes an item. Only its creator and admins may do so.
func (s *Service) Delete(ctx context.Context, viewer *identity.Identity, id uuid.UUID) error {
	item, err := s.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if !rbac.Can(viewer, rbac.ManageContent) || !access.CanModify(item, viewer) {
		return apperror.ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return apperror.ErrNotFound
		}
		return fmt.Errorf("deleting content item: %w", err)
	}

	slog.Info("content item deleted", "id", id, "by", viewer.ID)
	return nil
}
