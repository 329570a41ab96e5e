package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/yourorg/property-portal/internal/forms"
	"github.com/yourorg/property-portal/internal/logger"
)

// StatusClientClosedRequest is reported when the caller went away mid-submit.
const StatusClientClosedRequest = 499

type Submitter interface {
	Submit(ctx context.Context, f forms.Form) (forms.Receipt, error)
}

type SubmitDeps struct {
	Submitter Submitter
}

// RegisterSubmissions mounts the add/onboarding endpoints. Accepted forms get
// a 202 receipt; nothing is written to the catalog.
func RegisterSubmissions(r chi.Router, d SubmitDeps) {
	r.Post("/properties", submitHandler(d, forms.KindProperty))
	r.Post("/tenants", submitHandler(d, forms.KindTenant))
	r.Post("/vendors", submitHandler(d, forms.KindVendor))
}

func submitHandler(d SubmitDeps, kind forms.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		f := forms.New(kind)
		dec := json.NewDecoder(req.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			fail(w, req, http.StatusBadRequest, "invalid_payload", err.Error())
			return
		}
		rcpt, err := d.Submitter.Submit(req.Context(), f)
		if err != nil {
			var ve *forms.ValidationError
			switch {
			case errors.As(err, &ve):
				fail(w, req, http.StatusBadRequest, "validation_error", ve)
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				fail(w, req, StatusClientClosedRequest, "submission_cancelled", nil)
			default:
				logger.FromContext(req.Context()).Error("submission failed", zap.String("kind", string(kind)), zap.Error(err))
				fail(w, req, http.StatusInternalServerError, "submission_failed", err.Error())
			}
			return
		}
		render.Status(req, http.StatusAccepted)
		render.JSON(w, req, map[string]any{"ok": true, "receipt": rcpt})
	}
}
