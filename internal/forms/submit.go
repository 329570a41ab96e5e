package forms

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourorg/property-portal/internal/events"
)

// Submission outcomes reported to the Recorder.
const (
	OutcomeAccepted  = "accepted"
	OutcomeInvalid   = "invalid"
	OutcomeCancelled = "cancelled"
)

// Receipt acknowledges an accepted form.
type Receipt struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Reference  string    `json:"reference"`
	AcceptedAt time.Time `json:"accepted_at"`
}

type Recorder interface {
	Submission(kind, outcome string)
}

// Submitter simulates the asynchronous save behind the add/onboarding
// screens. It never writes to the catalog.
type Submitter struct {
	Delay    time.Duration
	Pub      events.Publisher
	Log      *zap.Logger
	Recorder Recorder

	now func() time.Time
}

// Submit normalizes f in place, validates it and waits out the simulated
// delay. A *ValidationError is returned for rejected input; a cancelled ctx
// aborts the wait with ctx.Err().
func (s *Submitter) Submit(ctx context.Context, f Form) (Receipt, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	kind := string(f.Kind())

	f.Normalize()
	if err := Validate(f); err != nil {
		s.record(kind, OutcomeInvalid)
		return Receipt{}, err
	}

	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			s.record(kind, OutcomeCancelled)
			return Receipt{}, ctx.Err()
		case <-time.After(s.Delay):
		}
	} else if err := ctx.Err(); err != nil {
		s.record(kind, OutcomeCancelled)
		return Receipt{}, err
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	rcpt := Receipt{ID: uuid.NewString(), Kind: f.Kind(), Reference: f.Reference(), AcceptedAt: now().UTC()}
	if s.Pub != nil {
		evt := events.Submission{ID: rcpt.ID, Kind: kind, Reference: rcpt.Reference, At: rcpt.AcceptedAt}
		if err := s.Pub.Publish(ctx, evt); err != nil {
			log.Warn("publish submission", zap.String("kind", kind), zap.Error(err))
		}
	}
	s.record(kind, OutcomeAccepted)
	return rcpt, nil
}

func (s *Submitter) record(kind, outcome string) {
	if s.Recorder != nil {
		s.Recorder.Submission(kind, outcome)
	}
}

// IsValidation reports whether err rejected the form's content.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
