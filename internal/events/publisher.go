// Package events publishes donation lifecycle events to a message broker.
package events

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks -source=publisher.go Publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kinds of events carried on the topic
const (
	KindCreated      = "donation.created"
	KindTransition   = "donation.transition"
	KindNotification = "donation.notification"
)

// ErrNoBrokers is returned when a Kafka publisher is configured without brokers
var ErrNoBrokers = errors.New("at least one broker is required")

// Envelope wraps every published payload
type Envelope struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher delivers keyed events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, event Envelope) error
	Close() error
}

// Writer is the subset of kafka.Writer used by KafkaPublisher
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON-encoded envelopes to a single topic.
// Messages keyed by donation ID land on the same partition and keep their order.
type KafkaPublisher struct {
	writer Writer
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to topic on the given brokers
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}), nil
}

// NewKafkaPublisherWithWriter wraps an existing writer
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish implements Publisher
func (p *KafkaPublisher) Publish(ctx context.Context, key string, event Envelope) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Kind, err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event.Kind, err)
	}
	slog.Debug("Published event", "kind", event.Kind, "key", key)
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, string, Envelope) error { return nil }

// Close implements Publisher
func (NopPublisher) Close() error { return nil }
