package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sahanw/travelbooking/internal/domain"
)

// BookingEvent is published once per successful lifecycle transition.
type BookingEvent struct {
	Type            string              `json:"type"`
	BookingID       int64               `json:"booking_id"`
	Reference       string              `json:"reference"`
	Kind            domain.ResourceKind `json:"kind"`
	CustomerID      int64               `json:"customer_id"`
	Email           string              `json:"email"`
	ResourceID      int64               `json:"resource_id"`
	ResourceName    string              `json:"resource_name"`
	Units           int                 `json:"units"`
	TotalPriceCents int64               `json:"total_price_cents"`
	Status          string              `json:"status"`
	OccurredAt      time.Time           `json:"occurred_at"`
}

const (
	EventBookingCreated       = "booking_created"
	EventBookingCancelled     = "booking_cancelled"
	EventBookingStatusChanged = "booking_status_changed"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
