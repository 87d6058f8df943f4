package core

// Namespace prefixes every document title written by the routing core.
const Namespace = "Monocle"

// TaskSwitchSite is queued whenever a route needs a different site package
// (or names no prototype) before a selection can apply.
const TaskSwitchSite = "switch-site"

// DefaultPropSet is the prop set used when none is requested.
const DefaultPropSet = "__default"

// Selection is the currently selected site package and prototype. Title is
// always derived from the selected prototype's styleguide metadata.
type Selection struct {
	SitePackageKey string
	PrototypeName  string
	Title          string
}

// HasPrototype reports whether a prototype is selected.
func (s Selection) HasPrototype() bool {
	return s.PrototypeName != ""
}

// RouteIntent is a requested navigation target. An empty PrototypeName
// means the route names no prototype.
type RouteIntent struct {
	SitePackageKey string
	PrototypeName  string
}

// NavigationRecord is stored in the history state of every entry written by
// the history synchronization process.
type NavigationRecord struct {
	PrototypeName  string `json:"prototypeName"`
	SitePackageKey string `json:"sitePackageKey"`
}

func (r NavigationRecord) Equal(other NavigationRecord) bool {
	return r.PrototypeName == other.PrototypeName && r.SitePackageKey == other.SitePackageKey
}

// Intent turns a record read back from history (back/forward) into a route.
func (r NavigationRecord) Intent() RouteIntent {
	return RouteIntent{SitePackageKey: r.SitePackageKey, PrototypeName: r.PrototypeName}
}

// DeriveTitle returns the display title for prototypeName given the loaded
// styleguide objects of the active site.
func DeriveTitle(prototypeName string, objects map[string]StyleguideObject) string {
	if prototypeName == "" {
		return ""
	}
	if obj, ok := objects[prototypeName]; ok && obj.Title != "" {
		return obj.Title
	}
	return prototypeName
}
