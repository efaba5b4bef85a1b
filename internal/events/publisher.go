package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

const checkoutTopic = "checkout-completed"

// CheckoutCompletedEvent is the payload published after a checkout commits,
// consumed downstream for order processing.
type CheckoutCompletedEvent struct {
	CheckoutID  string      `json:"checkout_id"`
	Email       string      `json:"email"`
	Items       []EventItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
}

type EventItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type Publisher interface {
	PublishCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  checkoutTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Email),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishCheckoutCompleted(context.Context, CheckoutCompletedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
