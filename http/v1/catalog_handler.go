package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/remote"
)

type Reloader interface {
	Reload(ctx context.Context) (catalog.Status, error)
}

type CatalogDeps struct {
	Status func() catalog.Status
	// Reloader is nil when the source cannot be reloaded.
	Reloader Reloader
	// StaleAfter marks the snapshot stale once it is older than this; 0 never.
	// A catalog that never loaded is always stale.
	StaleAfter time.Duration
	Now        func() time.Time
}

func RegisterCatalog(r chi.Router, d CatalogDeps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	r.Route("/v1/catalog", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			render.JSON(w, req, statusBody(d, d.Status()))
		})
		r.Post("/reload", func(w http.ResponseWriter, req *http.Request) {
			if d.Reloader == nil {
				render.Status(req, http.StatusConflict)
				render.JSON(w, req, map[string]any{"error": "reload_unavailable", "detail": "catalog source is static"})
				return
			}
			st, err := d.Reloader.Reload(req.Context())
			if errors.Is(err, remote.ErrInProgress) {
				render.Status(req, http.StatusAccepted)
				render.JSON(w, req, map[string]any{"ok": false, "in_progress": true})
				return
			}
			if err != nil {
				render.Status(req, http.StatusBadGateway)
				render.JSON(w, req, map[string]any{"error": "reload_failed", "detail": err.Error(), "catalog": statusBody(d, st)})
				return
			}
			render.JSON(w, req, statusBody(d, st))
		})
	})
}

func statusBody(d CatalogDeps, st catalog.Status) map[string]any {
	stale := !st.Loaded() || (d.StaleAfter > 0 && d.Now().Sub(st.LoadedAt) > d.StaleAfter)
	var loadedAt any
	if st.Loaded() {
		loadedAt = st.LoadedAt
	}
	return map[string]any{
		"ok":        true,
		"source":    st.Source,
		"loaded":    st.Loaded(),
		"loaded_at": loadedAt,
		"stale":     stale,
		"counts":    st.Counts,
	}
}
