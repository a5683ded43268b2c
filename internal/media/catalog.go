package media

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"sigs.k8s.io/yaml"
)

// Catalog is a read-only collection of assets.
type Catalog interface {
	List(ctx context.Context, filter Filter) ([]Asset, error)
}

// Reloader is implemented by catalogs that can refresh from their source.
type Reloader interface {
	Reload(ctx context.Context) error
}

// manifest is the on-disk layout of a catalog file.
type manifest struct {
	Assets []Asset `json:"assets"`
}

// FileCatalog serves assets from a YAML manifest file.
type FileCatalog struct {
	path string

	mu     sync.RWMutex
	assets []Asset
}

// NewFileCatalog loads the manifest at path.
func NewFileCatalog(ctx context.Context, path string) (*FileCatalog, error) {
	c := &FileCatalog{path: path}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewStaticCatalog wraps an in-memory list of assets.
func NewStaticCatalog(assets []Asset) *FileCatalog {
	return &FileCatalog{assets: assets}
}

// Reload re-reads the manifest. On error the previous assets are kept.
func (c *FileCatalog) Reload(_ context.Context) error {
	if c.path == "" {
		return nil
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("reading catalog manifest %s: %w", c.path, err)
	}

	assets, err := ParseManifest(raw)
	if err != nil {
		return fmt.Errorf("parsing catalog manifest %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.assets = assets
	c.mu.Unlock()
	return nil
}

// List returns the assets matching filter in manifest order.
func (c *FileCatalog) List(_ context.Context, filter Filter) ([]Asset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]Asset, 0, len(c.assets))
	for _, a := range c.assets {
		if filter.Kind != "" && a.Kind != filter.Kind {
			continue
		}
		if filter.ParentID != "" && a.ParentID != filter.ParentID {
			continue
		}
		if q != "" && !matchesQuery(&a, q) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// ParseManifest decodes a YAML (or JSON) manifest. Every asset needs an id and
// a name; ids must be unique.
func ParseManifest(raw []byte) ([]Asset, error) {
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(m.Assets))
	for i, a := range m.Assets {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("asset %d: id and name are required", i)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("asset %d: duplicate id %q", i, a.ID)
		}
		seen[a.ID] = true
	}

	if m.Assets == nil {
		m.Assets = []Asset{}
	}
	return m.Assets, nil
}

func matchesQuery(a *Asset, q string) bool {
	if strings.Contains(strings.ToLower(a.Name), q) || strings.Contains(strings.ToLower(a.Description), q) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
