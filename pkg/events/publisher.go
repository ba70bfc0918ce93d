package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	OrderCreated       = "created"
	OrderPaid          = "paid"
	OrderStatusChanged = "status"
)

// Envelope is the JSON value of every order event.
type Envelope struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// NewMessage keys events as order.<event>.<id> so one order's events share a partition key prefix.
func NewMessage(event, id string, payload any, now time.Time) (kafka.Message, error) {
	value, err := json.Marshal(Envelope{Type: event, ID: id, OccurredAt: now, Payload: payload})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%s", event, id)),
		Value: value,
		Time:  now,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event, id string, payload any) error {
	msg, err := NewMessage(event, id, payload, time.Now())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event for %s: %w", event, id, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(_ context.Context, event, id string, _ any) error {
	log.Debug().Str("event", event).Str("id", id).Msg("event publishing disabled, dropping event")
	return nil
}

func (Noop) Close() error { return nil }
