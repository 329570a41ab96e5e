package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/filter"
	"github.com/yourorg/property-portal/internal/model"
	"github.com/yourorg/property-portal/internal/nav"
)

type VendorCard struct {
	model.Vendor
	Status string `json:"status"`
}

func RegisterVendors(r chi.Router, d Deps) {
	fields := catalog.VendorFilter.Fields()

	r.Get("/vendors", func(w http.ResponseWriter, req *http.Request) {
		listVendors(w, req, d, criteriaFromQuery(req.URL.Query(), fields))
	})

	r.Post("/vendors/search", func(w http.ResponseWriter, req *http.Request) {
		c, err := criteriaFromBody(req, fields)
		if err != nil {
			fail(w, req, http.StatusBadRequest, "invalid_criteria", err.Error())
			return
		}
		listVendors(w, req, d, c)
	})
}

func listVendors(w http.ResponseWriter, req *http.Request, d Deps, c filter.Criteria) {
	matched := catalog.VendorFilter.Apply(d.Catalog.Vendors(), c)
	cards := make([]VendorCard, 0, len(matched))
	for _, v := range matched {
		cards = append(cards, VendorCard{Vendor: v, Status: model.ActiveLabel(v.Active)})
	}
	writeList(w, req, d, "vendors", nav.Vendors().Path(), c, catalog.VendorFilter.Defaults(), cards, len(cards))
}
