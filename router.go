package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/rs/cors"
	"go.uber.org/zap"

	httpapi "github.com/yourorg/property-portal/http"
	httpv1 "github.com/yourorg/property-portal/http/v1"
	"github.com/yourorg/property-portal/internal/logger"
	"github.com/yourorg/property-portal/internal/metrics"
)

type RouterDeps struct {
	Screens     httpapi.Deps
	Submit      httpapi.SubmitDeps
	Catalog     httpv1.CatalogDeps
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
}

func BuildRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Middleware(d.Log))
	r.Use(d.Metrics.Middleware)
	r.Use(httprate.LimitByIP(d.RateLimit, d.RateWindow))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		httpapi.RegisterShell(r, d.Screens)
		httpapi.RegisterProperties(r, d.Screens)
		httpapi.RegisterTenants(r, d.Screens)
		httpapi.RegisterVendors(r, d.Screens)
		httpapi.RegisterSubmissions(r, d.Submit)
	})

	// catalog status and manual reload
	httpv1.RegisterCatalog(r, d.Catalog)

	co := cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", logger.RequestIDHeader},
		ExposedHeaders: []string{logger.RequestIDHeader},
	})
	return co.Handler(r)
}
