// Package metrics holds the portal's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	FilterResults       *prometheus.HistogramVec
	Submissions         *prometheus.CounterVec
	CatalogReloads      *prometheus.CounterVec
	CatalogRecords      *prometheus.GaugeVec
}

// New registers every collector under prefix on a fresh registry.
func New(prefix string) *Metrics {
	if prefix == "" {
		prefix = "portal"
	}
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		FilterResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_filter_results",
			Help:    "Number of records left after filtering a list screen",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"entity"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_form_submissions_total",
			Help: "Form submissions by kind and outcome",
		}, []string{"kind", "outcome"}),
		CatalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_catalog_reloads_total",
			Help: "Catalog reload attempts by result",
		}, []string{"result"}),
		CatalogRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "_catalog_records",
			Help: "Records in the current catalog snapshot",
		}, []string{"entity"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal, m.HTTPRequestDuration, m.FilterResults,
		m.Submissions, m.CatalogReloads, m.CatalogRecords,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records request counts and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, code).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path, code).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) FilterResult(entity string, n int) {
	m.FilterResults.WithLabelValues(entity).Observe(float64(n))
}

func (m *Metrics) Submission(kind, outcome string) {
	m.Submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) CatalogReload(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.CatalogReloads.WithLabelValues(result).Inc()
}

func (m *Metrics) CatalogSize(entity string, n int) {
	m.CatalogRecords.WithLabelValues(entity).Set(float64(n))
}
