package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	URL      string
	Exchange string
}

// AMQP publishes submissions as JSON to a durable topic exchange.
type AMQP struct {
	cfg  AMQPConfig
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQP(cfg AMQPConfig) (*AMQP, error) {
	if cfg.URL == "" {
		return nil, errors.New("amqp: url is required")
	}
	if cfg.Exchange == "" {
		cfg.Exchange = "portal.events"
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: declare exchange %q: %w", cfg.Exchange, err)
	}
	return &AMQP{cfg: cfg, conn: conn, ch: ch}, nil
}

func (a *AMQP) Publish(ctx context.Context, evt Submission) error {
	msg, err := message(evt)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch == nil || a.conn == nil || a.conn.IsClosed() {
		return errors.New("amqp: connection closed")
	}
	if err := a.ch.PublishWithContext(ctx, a.cfg.Exchange, evt.RoutingKey(), false, false, msg); err != nil {
		return fmt.Errorf("amqp: publish %s: %w", evt.RoutingKey(), err)
	}
	return nil
}

func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	if a.ch != nil {
		errs = append(errs, a.ch.Close())
		a.ch = nil
	}
	if a.conn != nil {
		errs = append(errs, a.conn.Close())
		a.conn = nil
	}
	return errors.Join(errs...)
}

func message(evt Submission) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("amqp: encode event: %w", err)
	}
	ts := evt.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Timestamp:    ts,
		Type:         evt.RoutingKey(),
		Body:         body,
	}, nil
}
