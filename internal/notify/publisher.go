package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher sends events to a durable RabbitMQ queue on the default
// exchange.
type AMQPPublisher struct {
	ch    channel
	queue string
}

// DeclareQueue declares the durable notification queue on ch.
func DeclareQueue(ch *amqp.Channel, name string) (string, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("notify: declare queue %q: %w", name, err)
	}
	return q.Name, nil
}

func NewAMQPPublisher(ch *amqp.Channel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue}
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	e = stamp(e)
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("notify: encode %s: %w", e.Kind, err)
	}
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Kind),
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("notify: publish %s: %w", e.Kind, err)
	}
	return nil
}

// LogPublisher only logs events. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, e Event) error {
	e = stamp(e)
	slog.InfoContext(ctx, "notification", "kind", e.Kind, "audience", e.Audience, "order_id", e.OrderID,
		"product_id", e.ProductID, "message", e.Message)
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, stamp(e))
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Kinds() []Kind {
	var out []Kind
	for _, e := range r.Events() {
		out = append(out, e.Kind)
	}
	return out
}

func stamp(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	return e
}
