// Package events fans domain events out to Kafka for downstream consumers
// such as push or e-mail gateways.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	log     *zap.Logger
	timeout time.Duration
}

// Delivery bounds for the background writer. Failed batches surface through
// the completion log only.
const (
	writeTimeout = 5 * time.Second
	maxAttempts  = 3
	// publishTimeout caps the synchronous part of a write: the partition
	// lookup that precedes buffering.
	publishTimeout = 2 * time.Second
)

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: newWriter(brokers, topic, log), log: log, timeout: publishTimeout}
}

func newWriter(brokers []string, topic string, log *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           writeTimeout,
		MaxAttempts:            maxAttempts,
		AllowAutoTopicCreation: false,
		Async:                  true,
		Completion:             completionLogger(log),
	}
}

// completionLogger reports batches the async writer gave up on.
func completionLogger(log *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		keys := make([]string, 0, len(msgs))
		for _, m := range msgs {
			keys = append(keys, string(m.Key))
		}
		log.Warn("event delivery failed",
			zap.Int("messages", len(msgs)),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

// Publish queues the event keyed by e.Key so one recipient's events stay
// ordered. It returns once the event is buffered, not when it is acknowledged.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s event: %w", e.Type, err)
	}
	p.log.Debug("event queued", zap.String("type", e.Type), zap.String("key", e.Key))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards events; used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
