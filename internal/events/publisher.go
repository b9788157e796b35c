package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"food-delivery-api/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
)

// OrderEvent is the message body written to the orders topic.
type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      uint      `json:"order_id"`
	CustomerID   uint      `json:"customer_id"`
	RestaurantID uint      `json:"restaurant_id"`
	Status       string    `json:"status"`
	TotalPrice   string    `json:"total_price,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher writes order events to kafka. A nil Publisher is valid and
// drops everything, so callers never guard against a disabled broker.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns nil when broker is empty; event publishing is
// optional at runtime.
func NewPublisher(broker, topic string) *Publisher {
	if broker == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishOrder is best-effort: failures are logged and never returned,
// an order must not fail because the broker is down.
func (p *Publisher) PublishOrder(ctx context.Context, event OrderEvent) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: payload,
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to publish order event",
			zap.String("type", event.Type),
			zap.Uint("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
