package httpapi

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/model"
	"github.com/yourorg/property-portal/internal/nav"
)

const topVendorCount = 3

// Dashboard summarizes the whole catalog.
type Dashboard struct {
	Properties       int                          `json:"properties"`
	PropertiesByType map[model.PropertyType]int   `json:"propertiesByType"`
	ByStatus         map[model.PropertyStatus]int `json:"propertiesByStatus"`
	TotalUnits       int                          `json:"totalUnits"`
	OccupiedUnits    int                          `json:"occupiedUnits"`
	VacantUnits      int                          `json:"vacantUnits"`
	OccupancyRate    float64                      `json:"occupancyRate"`
	Tenants          int                          `json:"tenants"`
	ActiveTenants    int                          `json:"activeTenants"`
	Vendors          int                          `json:"vendors"`
	ActiveVendors    int                          `json:"activeVendors"`
	TopVendors       []model.Vendor               `json:"topVendors"`
}

// Summarize computes the dashboard figures. Occupancy is the share of all
// units that are occupied, 0 for an empty portfolio.
func Summarize(props []model.Property, tenants []model.Tenant, vendors []model.Vendor) Dashboard {
	d := Dashboard{
		Properties:       len(props),
		PropertiesByType: map[model.PropertyType]int{},
		ByStatus:         map[model.PropertyStatus]int{},
		Tenants:          len(tenants),
		Vendors:          len(vendors),
		TopVendors:       []model.Vendor{},
	}
	for _, p := range props {
		d.PropertiesByType[p.Type]++
		d.ByStatus[p.Status]++
		d.TotalUnits += p.TotalUnits
		d.OccupiedUnits += p.OccupiedUnits
	}
	d.VacantUnits = d.TotalUnits - d.OccupiedUnits
	if d.TotalUnits > 0 {
		d.OccupancyRate = float64(d.OccupiedUnits) / float64(d.TotalUnits) * 100
	}
	for _, t := range tenants {
		if t.Active {
			d.ActiveTenants++
		}
	}
	active := make([]model.Vendor, 0, len(vendors))
	for _, v := range vendors {
		if v.Active {
			active = append(active, v)
		}
	}
	d.ActiveVendors = len(active)
	slices.SortStableFunc(active, func(a, b model.Vendor) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(b.TotalJobs, a.TotalJobs)
	})
	if len(active) > topVendorCount {
		active = active[:topVendorCount]
	}
	d.TopVendors = append(d.TopVendors, active...)
	return d
}

func RegisterShell(r chi.Router, d Deps) {
	r.Get("/nav", func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Query().Get("path")
		dest, known := nav.Resolve(path)
		render.JSON(w, req, map[string]any{
			"ok":          true,
			"items":       nav.Menu(path),
			"destination": dest,
			"known":       known,
		})
	})

	r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{
			"ok":        true,
			"dashboard": Summarize(d.Catalog.Properties(), d.Catalog.Tenants(), d.Catalog.Vendors()),
		})
	})

	r.Get("/meta", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{
			"ok":                true,
			"propertyTypes":     model.PropertyTypes,
			"propertyStatuses":  model.PropertyStatuses,
			"vendorSpecialties": model.Specialties,
			"minRating":         model.MinRating,
			"maxRating":         model.MaxRating,
			"propertyDefaults":  catalog.PropertyFilter.Defaults(),
			"tenantDefaults":    catalog.TenantFilter.Defaults(),
			"vendorDefaults":    catalog.VendorFilter.Defaults(),
		})
	})
}
