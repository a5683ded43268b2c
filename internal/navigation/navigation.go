// Package navigation filters the portal shell's sections by role.
package navigation

import "github.com/pfcr/clubportal/internal/rbac"

// Section is a navigable area of the portal shell.
type Section struct {
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	Capability rbac.Capability `json:"capability"`
}

var sections = []Section{
	{Name: "Dashboard", Path: "/dashboard", Capability: rbac.ViewDashboard},
	{Name: "Players", Path: "/players", Capability: rbac.ViewDashboard},
	{Name: "Users", Path: "/users", Capability: rbac.ManageUsers},
	{Name: "Content", Path: "/content", Capability: rbac.ManageContent},
	{Name: "Google Drive", Path: "/google-drive", Capability: rbac.ManageMediaCatalog},
	{Name: "Vimeo Library", Path: "/vimeo", Capability: rbac.ManageMediaCatalog},
}

// VisibleSections returns, in canonical order, the sections whose capability
// role holds. Players get an empty slice; they use a dedicated experience.
func VisibleSections(role rbac.Role) []Section {
	caps := rbac.CapabilitiesFor(role)

	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if caps.Has(s.Capability) {
			out = append(out, s)
		}
	}
	return out
}

// Landing returns the path a role lands on after sign-in.
func Landing(role rbac.Role) string {
	if visible := VisibleSections(role); len(visible) > 0 {
		return visible[0].Path
	}
	return "/me"
}
