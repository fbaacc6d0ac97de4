// Package audit writes the reservation event stream to an append-only JSON log.
package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Edwardko2004/CS391-Project/internal/kafka"
)

type Recorder struct {
	log   *zap.Logger
	close func()
}

// NewRecorder opens path for appending. "stdout" and "stderr" are accepted.
func NewRecorder(path string) (*Recorder, error) {
	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log %q: %w", path, err)
	}
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:    "recorded_at",
		MessageKey: "type",
		EncodeTime: zapcore.ISO8601TimeEncoder,
		LineEnding: zapcore.DefaultLineEnding,
	})
	return &Recorder{
		log:   zap.New(zapcore.NewCore(encoder, sink, zapcore.InfoLevel)),
		close: closeSink,
	}, nil
}

// NewRecorderWithLogger records through an existing logger.
func NewRecorderWithLogger(l *zap.Logger) *Recorder {
	return &Recorder{log: l, close: func() {}}
}

func (r *Recorder) Record(_ context.Context, event kafka.ReservationEvent) error {
	switch event.Type {
	case kafka.EventReservationCreated, kafka.EventReservationCheckedIn:
	default:
		return fmt.Errorf("unknown reservation event type %q", event.Type)
	}
	r.log.Info(event.Type,
		zap.String("reservation_id", event.ReservationID),
		zap.String("event_id", event.EventID),
		zap.String("profile_id", event.ProfileID),
		zap.String("confirmation_code", event.ConfirmationCode),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

func (r *Recorder) Close() error {
	_ = r.log.Sync()
	r.close()
	return nil
}
