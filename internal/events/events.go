package events

import (
	"context"
	"time"
)

// Submission announces a form the portal accepted. Nothing behind it is stored.
type Submission struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Reference string    `json:"reference"`
	At        time.Time `json:"accepted_at"`
}

// RoutingKey is the topic a submission is published under.
func (s Submission) RoutingKey() string { return "submission." + s.Kind }

type Publisher interface {
	Publish(ctx context.Context, evt Submission) error
}

// Memory fans submissions into a buffered channel drained by a Sink.
// Publishing never blocks; events are dropped when the buffer is full.
type Memory struct{ ch chan Submission }

func NewInMemory(buffer int) *Memory {
	if buffer <= 0 {
		buffer = 256
	}
	return &Memory{ch: make(chan Submission, buffer)}
}

func (m *Memory) Publish(_ context.Context, evt Submission) error {
	select {
	case m.ch <- evt:
	default:
	}
	return nil
}

func (m *Memory) Subscribe() <-chan Submission { return m.ch }
