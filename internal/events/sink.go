package events

import (
	"context"

	"go.uber.org/zap"
)

// Sink logs every submission a Memory publisher receives until ctx ends.
type Sink struct {
	Source *Memory
	Log    *zap.Logger
}

func (s *Sink) Run(ctx context.Context) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	sub := s.Source.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			log.Info("submission accepted",
				zap.String("id", evt.ID),
				zap.String("kind", evt.Kind),
				zap.String("reference", evt.Reference),
				zap.Time("accepted_at", evt.At),
			)
		}
	}
}
