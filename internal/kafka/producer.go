package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventReservationCreated   = "reservation_created"
	EventReservationCheckedIn = "reservation_checked_in"
)

// ReservationEvent is the message published for every ledger state change.
// Messages are keyed by event id so one event's changes stay ordered.
type ReservationEvent struct {
	Type             string    `json:"type"`
	ReservationID    string    `json:"reservation_id"`
	EventID          string    `json:"event_id"`
	ProfileID        string    `json:"profile_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	OccurredAt       time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// DecodeReservationEvent parses a message value written by Publish.
func DecodeReservationEvent(msg kafka.Message) (ReservationEvent, error) {
	var event ReservationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return ReservationEvent{}, fmt.Errorf("decode %s@%d: %w", msg.Topic, msg.Offset, err)
	}
	return event, nil
}
