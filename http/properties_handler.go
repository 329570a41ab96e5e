package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/filter"
	"github.com/yourorg/property-portal/internal/model"
	"github.com/yourorg/property-portal/internal/nav"
)

// PropertyCard is a property plus the figures the list and detail screens show.
type PropertyCard struct {
	model.Property
	OccupancyRate float64 `json:"occupancyRate"`
	VacantUnits   int     `json:"vacantUnits"`
	Cover         string  `json:"cover,omitempty"`
	Path          string  `json:"path"`
}

func propertyCard(p model.Property) PropertyCard {
	return PropertyCard{
		Property:      p,
		OccupancyRate: p.OccupancyRate(),
		VacantUnits:   p.VacantUnits(),
		Cover:         p.Cover(),
		Path:          nav.PropertyDetail(p.ID).Path(),
	}
}

func RegisterProperties(r chi.Router, d Deps) {
	fields := catalog.PropertyFilter.Fields()

	r.Get("/properties", func(w http.ResponseWriter, req *http.Request) {
		listProperties(w, req, d, criteriaFromQuery(req.URL.Query(), fields))
	})

	r.Post("/properties/search", func(w http.ResponseWriter, req *http.Request) {
		c, err := criteriaFromBody(req, fields)
		if err != nil {
			fail(w, req, http.StatusBadRequest, "invalid_criteria", err.Error())
			return
		}
		listProperties(w, req, d, c)
	})

	r.Get("/properties/{propertyID}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "propertyID")
		p, ok := d.Catalog.Property(id)
		if !ok {
			fail(w, req, http.StatusNotFound, "property_not_found", map[string]string{"id": id})
			return
		}
		resp := map[string]any{
			"ok":       true,
			"property": propertyCard(p),
			"units":    d.Catalog.UnitsFor(p.ID),
			"tenants":  d.Catalog.TenantsFor(p.ID),
		}
		// unknown manager: the section is left out
		if m, ok := d.Catalog.Manager(p.ManagerID); ok {
			resp["manager"] = m
		}
		render.JSON(w, req, resp)
	})
}

func listProperties(w http.ResponseWriter, req *http.Request, d Deps, c filter.Criteria) {
	matched := catalog.PropertyFilter.Apply(d.Catalog.Properties(), c)
	cards := make([]PropertyCard, 0, len(matched))
	for _, p := range matched {
		cards = append(cards, propertyCard(p))
	}
	writeList(w, req, d, "properties", nav.Properties().Path(), c, catalog.PropertyFilter.Defaults(), cards, len(cards))
}
