// Package nav maps the portal's logical destinations to paths and back, and
// builds the navigation shell's menu.
package nav

import (
	"net/url"
	"strings"
)

type Screen string

const (
	ScreenDashboard      Screen = "dashboard"
	ScreenProperties     Screen = "properties"
	ScreenPropertyDetail Screen = "property_detail"
	ScreenPropertyNew    Screen = "property_new"
	ScreenTenants        Screen = "tenants"
	ScreenTenantDetail   Screen = "tenant_detail"
	ScreenTenantOnboard  Screen = "tenant_onboard"
	ScreenVendors        Screen = "vendors"
	ScreenVendorOnboard  Screen = "vendor_onboard"
)

// Destination is a screen plus the record it shows, if any.
type Destination struct {
	Screen Screen `json:"screen"`
	ID     string `json:"id,omitempty"`
}

func Dashboard() Destination               { return Destination{Screen: ScreenDashboard} }
func Properties() Destination              { return Destination{Screen: ScreenProperties} }
func PropertyDetail(id string) Destination { return Destination{Screen: ScreenPropertyDetail, ID: id} }
func PropertyNew() Destination             { return Destination{Screen: ScreenPropertyNew} }
func Tenants() Destination                 { return Destination{Screen: ScreenTenants} }
func TenantDetail(id string) Destination   { return Destination{Screen: ScreenTenantDetail, ID: id} }
func TenantOnboard() Destination           { return Destination{Screen: ScreenTenantOnboard} }
func Vendors() Destination                 { return Destination{Screen: ScreenVendors} }
func VendorOnboard() Destination           { return Destination{Screen: ScreenVendorOnboard} }

// Path renders the destination's location. Detail screens without an id
// fall back to their list.
func (d Destination) Path() string {
	id := url.PathEscape(d.ID)
	switch d.Screen {
	case ScreenProperties:
		return "/properties"
	case ScreenPropertyDetail:
		if d.ID == "" {
			return "/properties"
		}
		return "/properties/" + id
	case ScreenPropertyNew:
		return "/properties/new"
	case ScreenTenants:
		return "/tenants"
	case ScreenTenantDetail:
		if d.ID == "" {
			return "/tenants"
		}
		return "/tenants/" + id
	case ScreenTenantOnboard:
		return "/tenants/onboard"
	case ScreenVendors:
		return "/vendors"
	case ScreenVendorOnboard:
		return "/vendors/onboard"
	default:
		return "/"
	}
}

// Resolve maps a path back to its destination. Unknown paths resolve to the
// dashboard with ok=false.
func Resolve(path string) (Destination, bool) {
	path = strings.Trim(path, "/")
	if path == "" {
		return Dashboard(), true
	}
	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		return Dashboard(), false
	}
	list := map[string]Destination{"properties": Properties(), "tenants": Tenants(), "vendors": Vendors()}
	d, ok := list[parts[0]]
	if !ok {
		return Dashboard(), false
	}
	if len(parts) == 1 {
		return d, true
	}
	seg, err := url.PathUnescape(parts[1])
	if err != nil || seg == "" {
		return Dashboard(), false
	}
	switch {
	case parts[0] == "properties" && seg == "new":
		return PropertyNew(), true
	case parts[0] == "tenants" && seg == "onboard":
		return TenantOnboard(), true
	case parts[0] == "vendors" && seg == "onboard":
		return VendorOnboard(), true
	case parts[0] == "properties":
		return PropertyDetail(seg), true
	case parts[0] == "tenants":
		return TenantDetail(seg), true
	}
	return Dashboard(), false
}

type Item struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

var menu = []struct {
	label string
	icon  string
	dest  Destination
}{
	{"Dashboard", "home", Dashboard()},
	{"Properties", "building", Properties()},
	{"Tenants", "users", Tenants()},
	{"Vendors", "wrench", Vendors()},
}

// Menu returns the shell's items with the one owning current marked active.
// The longest matching path prefix wins; "/" only matches itself.
func Menu(current string) []Item {
	current = "/" + strings.Trim(current, "/")
	items := make([]Item, len(menu))
	best, bestLen := -1, 0
	for i, m := range menu {
		p := m.dest.Path()
		items[i] = Item{Label: m.label, Path: p, Icon: m.icon}
		if matches(current, p) && len(p) > bestLen {
			best, bestLen = i, len(p)
		}
	}
	if best >= 0 {
		items[best].Active = true
	}
	return items
}

func matches(current, p string) bool {
	if p == "/" {
		return current == "/"
	}
	return current == p || strings.HasPrefix(current, p+"/")
}
