package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/forms"
	"github.com/yourorg/property-portal/internal/model"
)

type filterRec struct {
	mu   sync.Mutex
	seen map[string]int
}

func (f *filterRec) FilterResult(entity string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = map[string]int{}
	}
	f.seen[entity] = n
}

func newServer(t *testing.T, sub Submitter) (http.Handler, *filterRec) {
	t.Helper()
	snap, err := catalog.Sample().Load(context.Background())
	require.NoError(t, err)
	rec := &filterRec{}
	d := Deps{Catalog: catalog.NewRepository(snap, "sample"), Metrics: rec}
	if sub == nil {
		sub = &forms.Submitter{}
	}

	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Route("/api/v1", func(r chi.Router) {
		RegisterShell(r, d)
		RegisterProperties(r, d)
		RegisterTenants(r, d)
		RegisterVendors(r, d)
		RegisterSubmissions(r, SubmitDeps{Submitter: sub})
	})
	return r, rec
}

func do(t *testing.T, h http.Handler, method, target string, body string) (int, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func names(t *testing.T, items any, key string) []string {
	t.Helper()
	list, ok := items.([]any)
	require.True(t, ok, "not a list: %T", items)
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, it.(map[string]any)[key].(string))
	}
	return out
}

func TestPropertyListFilters(t *testing.T) {
	h, rec := newServer(t, nil)

	code, body := do(t, h, http.MethodGet, "/api/v1/properties", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5.0, body["count"])
	assert.Nil(t, body["empty"])

	code, body = do(t, h, http.MethodGet, "/api/v1/properties?q=%20RIVER%20&type=all", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Riverside Condos"}, names(t, body["properties"], "name"))
	assert.Equal(t, 1, rec.seen["properties"])

	code, body = do(t, h, http.MethodPost, "/api/v1/properties/search", `{"q":"springfield","fields":{"type":"Townhouse"}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"p4"}, names(t, body["properties"], "id"))
}

func TestPropertyListEmptyOffersReset(t *testing.T) {
	h, _ := newServer(t, nil)
	code, body := do(t, h, http.MethodGet, "/api/v1/properties?q=zzz&status=active", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["count"])
	assert.Equal(t, true, body["empty"])
	assert.Equal(t, "/api/v1/properties", body["reset_path"])
	reset := body["reset"].(map[string]any)
	assert.Equal(t, "", reset["q"])
	assert.Equal(t, map[string]any{"type": "all", "status": "all"}, reset["fields"])
	assert.Empty(t, body["properties"])

	raw, err := json.Marshal(body["reset"])
	require.NoError(t, err)
	code, body = do(t, h, http.MethodPost, "/api/v1/properties/search", string(raw))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5.0, body["count"])
	assert.Nil(t, body["empty"])
}

func TestSearchRejectsUnknownCriteria(t *testing.T) {
	h, _ := newServer(t, nil)
	code, body := do(t, h, http.MethodPost, "/api/v1/vendors/search", `{"fields":{"colour":"red"}}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_criteria", body["error"])

	code, body = do(t, h, http.MethodPost, "/api/v1/vendors/search", `{"colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_criteria", body["error"])

	code, body = do(t, h, http.MethodPost, "/api/v1/properties/search", `{`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_criteria", body["error"])
}

func TestPropertyDetail(t *testing.T) {
	h, _ := newServer(t, nil)

	code, body := do(t, h, http.MethodGet, "/api/v1/properties/p1", "")
	require.Equal(t, http.StatusOK, code)
	prop := body["property"].(map[string]any)
	assert.Equal(t, "Oakwood Apartments", prop["name"])
	assert.Equal(t, "/properties/p1", prop["path"])
	assert.NotNil(t, body["manager"])
	assert.Len(t, body["units"], 2)
	assert.Len(t, body["tenants"], 1)

	// p4 names a manager missing from the catalog
	code, body = do(t, h, http.MethodGet, "/api/v1/properties/p4", "")
	require.Equal(t, http.StatusOK, code)
	_, hasManager := body["manager"]
	assert.False(t, hasManager)
	assert.Equal(t, []any{}, body["units"])

	code, body = do(t, h, http.MethodGet, "/api/v1/properties/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "property_not_found", body["error"])
}

func TestTenantScreens(t *testing.T) {
	h, _ := newServer(t, nil)

	code, body := do(t, h, http.MethodGet, "/api/v1/tenants?status=inactive", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"t3"}, names(t, body["tenants"], "id"))

	code, body = do(t, h, http.MethodGet, "/api/v1/tenants/t1", "")
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, body["unit"])
	assert.NotNil(t, body["property"])

	// t4 points at a unit that does not exist
	code, body = do(t, h, http.MethodGet, "/api/v1/tenants/t4", "")
	require.Equal(t, http.StatusOK, code)
	_, hasUnit := body["unit"]
	assert.False(t, hasUnit)

	code, _ = do(t, h, http.MethodGet, "/api/v1/tenants/t404", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVendorDirectory(t *testing.T) {
	h, _ := newServer(t, nil)

	code, body := do(t, h, http.MethodGet, "/api/v1/vendors?specialty=HVAC", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"v2"}, names(t, body["vendors"], "id"))

	code, body = do(t, h, http.MethodGet, "/api/v1/vendors?status=inactive", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"v4"}, names(t, body["vendors"], "id"))
	assert.Equal(t, []string{"inactive"}, names(t, body["vendors"], "status"))
}

func TestShell(t *testing.T) {
	h, _ := newServer(t, nil)

	code, body := do(t, h, http.MethodGet, "/api/v1/nav?path=/vendors/onboard", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["known"])
	assert.Equal(t, "vendor_onboard", body["destination"].(map[string]any)["screen"])

	code, body = do(t, h, http.MethodGet, "/api/v1/meta", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["vendorSpecialties"], len(model.Specialties))

	code, body = do(t, h, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, code)
	dash := body["dashboard"].(map[string]any)
	assert.Equal(t, 5.0, dash["properties"])
	assert.LessOrEqual(t, len(dash["topVendors"].([]any)), topVendorCount)
}

func TestSummarize(t *testing.T) {
	props := []model.Property{
		{Type: model.TypeCondo, Status: model.StatusActive, TotalUnits: 10, OccupiedUnits: 5},
		{Type: model.TypeCondo, Status: model.StatusInactive, TotalUnits: 10, OccupiedUnits: 10},
	}
	vendors := []model.Vendor{
		{ID: "a", Rating: 4.0, TotalJobs: 1, Active: true},
		{ID: "b", Rating: 4.5, TotalJobs: 2, Active: true},
		{ID: "c", Rating: 4.5, TotalJobs: 9, Active: true},
		{ID: "d", Rating: 5.0, TotalJobs: 9, Active: false},
		{ID: "e", Rating: 3.0, Active: true},
	}
	d := Summarize(props, []model.Tenant{{Active: true}, {}}, vendors)
	assert.Equal(t, 20, d.TotalUnits)
	assert.Equal(t, 5, d.VacantUnits)
	assert.InDelta(t, 75.0, d.OccupancyRate, 0.001)
	assert.Equal(t, 2, d.PropertiesByType[model.TypeCondo])
	assert.Equal(t, 1, d.ActiveTenants)
	assert.Equal(t, 4, d.ActiveVendors)
	ids := []string{}
	for _, v := range d.TopVendors {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	empty := Summarize(nil, nil, nil)
	assert.Equal(t, 0.0, empty.OccupancyRate)
	assert.NotNil(t, empty.TopVendors)
}

func TestSubmissions(t *testing.T) {
	h, _ := newServer(t, nil)

	code, body := do(t, h, http.MethodPost, "/api/v1/vendors",
		`{"name":"FixIt","email":"fix@example.com","phone":"555-0102","specialties":["hvac"]}`)
	require.Equal(t, http.StatusAccepted, code)
	rcpt := body["receipt"].(map[string]any)
	assert.Equal(t, "vendor", rcpt["kind"])
	assert.NotEmpty(t, rcpt["id"])

	code, body = do(t, h, http.MethodPost, "/api/v1/tenants", `{"firstName":"Ana","lastName":"Ruiz","email":"bad","phone":"1"}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation_error", body["error"])
	assert.Equal(t, "Email must be a valid email address", body["detail"].(map[string]any)["message"])

	code, body = do(t, h, http.MethodPost, "/api/v1/properties", `{"name": 5}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_payload", body["error"])

	code, body = do(t, h, http.MethodPost, "/api/v1/properties", `{"nickname":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_payload", body["error"])
}

func TestSubmissionCancelled(t *testing.T) {
	h, _ := newServer(t, &forms.Submitter{Delay: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors",
		strings.NewReader(`{"name":"FixIt","email":"fix@example.com","phone":"555-0102","specialties":["hvac"]}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, StatusClientClosedRequest, rec.Code)
}
