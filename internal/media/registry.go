package media

import "sort"

// Catalog names served by the portal.
const (
	CatalogVideo = "video"
	CatalogDrive = "drive"
)

// Registry maps catalog names to Catalog implementations.
type Registry struct {
	catalogs map[string]Catalog
}

// NewRegistry creates an empty catalog registry.
func NewRegistry() *Registry {
	return &Registry{
		catalogs: make(map[string]Catalog),
	}
}

// Register adds a catalog to the registry under the given name.
func (r *Registry) Register(name string, c Catalog) {
	r.catalogs[name] = c
}

// Get returns the catalog registered under the given name.
// Returns false if the name is not registered.
func (r *Registry) Get(name string) (Catalog, bool) {
	c, ok := r.catalogs[name]
	return c, ok
}

// Names returns a sorted list of all registered catalog names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.catalogs))
	for name := range r.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
