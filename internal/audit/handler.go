package audit

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/internal/kafka"
)

type Invalidator interface {
	Invalidate(ctx context.Context, eventID string) error
}

// NewMessageHandler records each reservation message and drops the cached
// views of its event. Malformed messages are logged and skipped so one bad
// record cannot stall the consumer group.
func NewMessageHandler(r *Recorder, inv Invalidator, log *zap.Logger) kafka.Handler {
	return func(ctx context.Context, msg kafkago.Message) error {
		event, err := kafka.DecodeReservationEvent(msg)
		if err != nil {
			log.Warn("skipping undecodable message", zap.Error(err))
			return nil
		}
		if err := r.Record(ctx, event); err != nil {
			log.Warn("skipping reservation event", zap.Int64("offset", msg.Offset), zap.Error(err))
			return nil
		}
		if inv != nil && event.Type == kafka.EventReservationCreated {
			if err := inv.Invalidate(ctx, event.EventID); err != nil {
				log.Warn("invalidate event cache failed", zap.String("event_id", event.EventID), zap.Error(err))
			}
		}
		return nil
	}
}
