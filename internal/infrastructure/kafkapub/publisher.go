package kafkapub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/commerce-platform/commerce-core/internal/domain/inventory"
	"github.com/commerce-platform/commerce-core/pkg/logging"
	"github.com/commerce-platform/commerce-core/pkg/metrics"
)

// Config holds Kafka publisher configuration
type Config struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BatchSize    int           `yaml:"batchSize"`
	BatchTimeout time.Duration `yaml:"batchTimeout"`
	RequiredAcks int           `yaml:"requiredAcks"`
}

// DefaultConfig returns default publisher configuration
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		Topic:        "commerce.inventory.events",
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
	}
}

// Envelope is the wire format for published domain events
type Envelope struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Source string          `json:"source"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// NewEnvelope wraps a domain event for publication
func NewEnvelope(source string, event inventory.DomainEvent) (Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}
	return Envelope{
		ID:     uuid.NewString(),
		Type:   event.EventType(),
		Source: source,
		Time:   event.OccurredAt(),
		Data:   data,
	}, nil
}

// Publisher publishes inventory domain events to one Kafka topic
type Publisher struct {
	writer  *kafka.Writer
	source  string
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewPublisher creates a Publisher over the configured topic
func NewPublisher(config *Config, source string, m *metrics.Metrics, logger *logging.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(config.RequiredAcks),
		Async:        false,
	}

	return &Publisher{
		writer:  writer,
		source:  source,
		metrics: m,
		logger:  logger,
	}
}

// Publish implements inventory.EventPublisher
func (p *Publisher) Publish(ctx context.Context, event inventory.DomainEvent) error {
	return p.PublishAll(ctx, []inventory.DomainEvent{event})
}

// PublishAll implements inventory.EventPublisher. Events are written in one
// batch; a batch failure counts every event as failed.
func (p *Publisher) PublishAll(ctx context.Context, events []inventory.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		envelope, err := NewEnvelope(p.source, event)
		if err != nil {
			p.observe(events, "error")
			return err
		}

		value, err := json.Marshal(envelope)
		if err != nil {
			p.observe(events, "error")
			return fmt.Errorf("failed to marshal envelope: %w", err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(envelope.Type),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event-id", Value: []byte(envelope.ID)},
				{Key: "event-type", Value: []byte(envelope.Type)},
				{Key: "event-source", Value: []byte(envelope.Source)},
			},
			Time: envelope.Time,
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.observe(events, "error")
		return fmt.Errorf("failed to publish events: %w", err)
	}

	p.observe(events, "success")
	return nil
}

// Close closes the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) observe(events []inventory.DomainEvent, status string) {
	for _, event := range events {
		p.metrics.EventsPublished.WithLabelValues(event.EventType(), status).Inc()
	}
}
