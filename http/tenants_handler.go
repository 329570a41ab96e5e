package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/model"
	"github.com/yourorg/property-portal/internal/nav"
)

type TenantCard struct {
	model.Tenant
	FullName string `json:"fullName"`
	Status   string `json:"status"`
	Path     string `json:"path"`
}

func tenantCard(t model.Tenant) TenantCard {
	return TenantCard{Tenant: t, FullName: t.FullName(), Status: model.ActiveLabel(t.Active), Path: nav.TenantDetail(t.ID).Path()}
}

func RegisterTenants(r chi.Router, d Deps) {
	fields := catalog.TenantFilter.Fields()

	r.Get("/tenants", func(w http.ResponseWriter, req *http.Request) {
		c := criteriaFromQuery(req.URL.Query(), fields)
		matched := catalog.TenantFilter.Apply(d.Catalog.Tenants(), c)
		cards := make([]TenantCard, 0, len(matched))
		for _, t := range matched {
			cards = append(cards, tenantCard(t))
		}
		writeList(w, req, d, "tenants", nav.Tenants().Path(), c, catalog.TenantFilter.Defaults(), cards, len(cards))
	})

	r.Get("/tenants/{tenantID}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "tenantID")
		t, ok := d.Catalog.Tenant(id)
		if !ok {
			fail(w, req, http.StatusNotFound, "tenant_not_found", map[string]string{"id": id})
			return
		}
		resp := map[string]any{"ok": true, "tenant": tenantCard(t)}
		if u, ok := d.Catalog.Unit(t.UnitID); ok {
			resp["unit"] = u
			if p, ok := d.Catalog.Property(u.PropertyID); ok {
				resp["property"] = propertyCard(p)
			}
		}
		render.JSON(w, req, resp)
	})
}
