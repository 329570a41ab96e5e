package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpapi "github.com/yourorg/property-portal/http"
	httpv1 "github.com/yourorg/property-portal/http/v1"
	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/forms"
	"github.com/yourorg/property-portal/internal/metrics"
)

func testRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	snap, err := catalog.Sample().Load(context.Background())
	require.NoError(t, err)
	repo := catalog.NewRepository(snap, "sample")
	m := metrics.New("test")
	return BuildRouter(RouterDeps{
		Screens:     httpapi.Deps{Catalog: repo, Metrics: m},
		Submit:      httpapi.SubmitDeps{Submitter: &forms.Submitter{Recorder: m}},
		Catalog:     httpv1.CatalogDeps{Status: repo.Status},
		Metrics:     m,
		Log:         zap.NewNop(),
		CORSOrigins: []string{"http://portal.test"},
		RateLimit:   limit,
		RateWindow:  time.Minute,
	})
}

func get(h http.Handler, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterServesScreensAndMetrics(t *testing.T) {
	h := testRouter(t, 100)

	rec := get(h, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(h, "/api/v1/vendors?q=spark", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Spark Electric")

	rec = get(h, "/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"sample"`)

	rec = get(h, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `test_http_requests_total{method="GET",path="/api/v1/vendors",status="200"} 1`), body)
	assert.Contains(t, body, `test_filter_results_count{entity="vendors"} 1`)
}

func TestRouterCORS(t *testing.T) {
	h := testRouter(t, 100)
	rec := get(h, "/api/v1/meta", map[string]string{"Origin": "http://portal.test"})
	assert.Equal(t, "http://portal.test", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(h, "/api/v1/meta", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimit(t *testing.T) {
	h := testRouter(t, 2)
	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, get(h, "/health", nil).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
