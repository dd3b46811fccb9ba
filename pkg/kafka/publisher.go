// Package kafka publishes events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/inventario/inventario/pkg/config"
	"github.com/inventario/inventario/pkg/messaging"
	"github.com/segmentio/kafka-go"
)

// SubjectHeader carries the event subject, so consumers can route without decoding the payload.
const SubjectHeader = "subject"

var _ messaging.Publisher = (*Publisher)(nil)

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer       messageWriter
	writeTimeout time.Duration
}

// NewPublisher creates a publisher writing to cfg.Topic. Messages are balanced by key hash,
// so all events of one product land in one partition.
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.WriteTimeout)
}

func newPublisher(writer messageWriter, writeTimeout time.Duration) *Publisher {
	return &Publisher{writer: writer, writeTimeout: writeTimeout}
}

func (p *Publisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:     []byte(event.Key()),
		Value:   data,
		Headers: []kafka.Header{{Key: SubjectHeader, Value: []byte(event.Subject())}},
	}
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("failed to write kafka message for %s: %w", event.Subject(), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
