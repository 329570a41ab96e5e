package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"

	"github.com/yourorg/property-portal/internal/filter"
	"github.com/yourorg/property-portal/internal/model"
)

// Deps is what every screen handler reads from.
type Deps struct {
	Catalog Catalog
	Metrics FilterRecorder
}

// Catalog is the read-only provider behind the screens.
type Catalog interface {
	Properties() []model.Property
	Tenants() []model.Tenant
	Vendors() []model.Vendor
	Property(id string) (model.Property, bool)
	Tenant(id string) (model.Tenant, bool)
	Manager(id string) (model.Manager, bool)
	Unit(id string) (model.Unit, bool)
	UnitsFor(propertyID string) []model.Unit
	TenantsFor(propertyID string) []model.Tenant
}

type FilterRecorder interface {
	FilterResult(entity string, n int)
}

func fail(w http.ResponseWriter, req *http.Request, status int, code string, detail any) {
	body := map[string]any{"error": code}
	if detail != nil {
		body["detail"] = detail
	}
	render.Status(req, status)
	render.JSON(w, req, body)
}

// criteriaFromQuery reads q plus each declared field; anything else is ignored.
func criteriaFromQuery(q url.Values, fields []string) filter.Criteria {
	c := filter.Criteria{Query: q.Get("q")}
	for _, f := range fields {
		if v := strings.TrimSpace(q.Get(f)); v != "" {
			c = c.With(f, v)
		}
	}
	return c
}

// criteriaFromBody decodes the same {"q": "...", "fields": {...}} shape list
// responses echo as criteria and reset. Unknown keys are rejected so a typo
// cannot silently empty the list.
func criteriaFromBody(req *http.Request, fields []string) (filter.Criteria, error) {
	var body filter.Criteria
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return filter.Criteria{}, err
	}
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	c := filter.Criteria{Query: body.Query}
	for k, v := range body.Fields {
		if !allowed[k] {
			return filter.Criteria{}, fmt.Errorf("unknown filter %q", k)
		}
		if v = strings.TrimSpace(v); v != "" {
			c = c.With(k, v)
		}
	}
	return c, nil
}

// writeList renders a filtered list. An empty result carries the reset
// affordance: the default criteria and the bare list path.
func writeList(w http.ResponseWriter, req *http.Request, d Deps, entity, path string, c, reset filter.Criteria, items any, n int) {
	if d.Metrics != nil {
		d.Metrics.FilterResult(entity, n)
	}
	resp := map[string]any{"ok": true, "count": n, "criteria": c, entity: items}
	if n == 0 {
		resp["empty"] = true
		resp["reset"] = reset
		resp["reset_path"] = "/api/v1" + path
	}
	render.JSON(w, req, resp)
}
