package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/remote"
)

type reloader struct {
	st  catalog.Status
	err error
}

func (r reloader) Reload(context.Context) (catalog.Status, error) { return r.st, r.err }

func serve(t *testing.T, d CatalogDeps, method, path string) (int, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	RegisterCatalog(r, d)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestCatalogStatusStaleness(t *testing.T) {
	loaded := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	st := catalog.Status{Source: "remote", LoadedAt: loaded, Counts: catalog.Counts{Properties: 3}}
	d := CatalogDeps{
		Status:     func() catalog.Status { return st },
		StaleAfter: time.Minute,
		Now:        func() time.Time { return loaded.Add(30 * time.Second) },
	}

	code, body := serve(t, d, http.MethodGet, "/v1/catalog")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "remote", body["source"])
	assert.Equal(t, false, body["stale"])
	assert.Equal(t, true, body["loaded"])
	assert.Equal(t, 3.0, body["counts"].(map[string]any)["properties"])

	d.Now = func() time.Time { return loaded.Add(2 * time.Minute) }
	_, body = serve(t, d, http.MethodGet, "/v1/catalog")
	assert.Equal(t, true, body["stale"])
}

func TestCatalogStatusNeverLoaded(t *testing.T) {
	repo := catalog.NewRepository(nil, "remote")
	d := CatalogDeps{Status: repo.Status}

	code, body := serve(t, d, http.MethodGet, "/v1/catalog")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["loaded"])
	assert.Nil(t, body["loaded_at"])
	assert.Equal(t, true, body["stale"])
}

func TestCatalogReload(t *testing.T) {
	st := catalog.Status{Source: "file", LoadedAt: time.Now()}
	base := CatalogDeps{Status: func() catalog.Status { return st }}

	code, body := serve(t, base, http.MethodPost, "/v1/catalog/reload")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "reload_unavailable", body["error"])

	ok := base
	ok.Reloader = reloader{st: st}
	code, body = serve(t, ok, http.MethodPost, "/v1/catalog/reload")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "file", body["source"])

	busy := base
	busy.Reloader = reloader{err: remote.ErrInProgress}
	code, body = serve(t, busy, http.MethodPost, "/v1/catalog/reload")
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, true, body["in_progress"])

	broken := base
	broken.Reloader = reloader{st: st, err: errors.New("boom")}
	code, body = serve(t, broken, http.MethodPost, "/v1/catalog/reload")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "reload_failed", body["error"])
}
