package hydrator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Job reloads the catalog every Interval until its context ends.
type Job struct {
	Hydrator *Hydrator
	Interval time.Duration
	Log      *zap.Logger
}

func (j *Job) logger() *zap.Logger {
	if j.Log != nil {
		return j.Log
	}
	return zap.NewNop()
}

// Run blocks until ctx is cancelled. With no interval it reloads once and
// returns. Cancellation is not reported as an error.
func (j *Job) Run(ctx context.Context) error {
	if j == nil || !j.Hydrator.Enabled() {
		return errors.New("catalog reload job requires a hydrator")
	}
	if j.Interval <= 0 {
		return j.RunOnce(ctx)
	}
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	j.logger().Info("catalog reload job starting", zap.Duration("interval", j.Interval))
	for {
		select {
		case <-ctx.Done():
			j.logger().Info("catalog reload job stopping", zap.Error(ctx.Err()))
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				j.logger().Debug("catalog reload iteration error", zap.Error(err))
			}
		}
	}
}

func (j *Job) RunOnce(ctx context.Context) error {
	_, err := j.Hydrator.Reload(ctx)
	return err
}
