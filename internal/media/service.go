// Package media lists assets from external video and drive catalogs, filtered
// by the same access rules as local content.
package media

import (
	"context"
	"fmt"

	"github.com/pfcr/clubportal/internal/access"
	"github.com/pfcr/clubportal/internal/apperror"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/metrics"
)

// Service lists catalog assets per viewer.
type Service struct {
	registry *Registry
	metrics  *metrics.Metrics
}

// NewService creates a media Service over registry. m may be nil.
func NewService(registry *Registry, m *metrics.Metrics) *Service {
	return &Service{registry: registry, metrics: m}
}

// Catalogs returns the registered catalog names.
func (s *Service) Catalogs() []string {
	return s.registry.Names()
}

// ListVisible returns the assets of the named catalog that viewer may see.
// An unknown catalog name is reported as apperror.ErrNotFound.
func (s *Service) ListVisible(ctx context.Context, viewer *identity.Identity, name string, filter Filter) ([]Asset, error) {
	c, ok := s.registry.Get(name)
	if !ok {
		return nil, apperror.ErrNotFound
	}

	assets, err := c.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing catalog %s: %w", name, err)
	}

	visible := access.FilterVisible(assets, viewer)
	s.metrics.VisibilityDecisions("media:"+name, len(visible), len(assets)-len(visible))
	return visible, nil
}
