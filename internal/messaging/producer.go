package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher publishes CloudEvents to a topic.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, event CloudEvent) error
}

// Producer publishes CloudEvents to Kafka.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer writing to the given brokers.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

// PublishEvent writes event to topic, keyed by the event subject so that
// events for one booking stay ordered within a partition.
func (p *Producer) PublishEvent(ctx context.Context, topic string, event CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.Subject),
		Value: value,
		Headers: []kafka.Header{
			{Key: "ce_type", Value: []byte(event.Type)},
			{Key: "ce_id", Value: []byte(event.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("event_type", event.Type),
		zap.String("event_id", event.ID),
	)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events. It is used when no brokers are configured.
type NoopPublisher struct{}

// PublishEvent implements Publisher.
func (NoopPublisher) PublishEvent(context.Context, string, CloudEvent) error { return nil }
