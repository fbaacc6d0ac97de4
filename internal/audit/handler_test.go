package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Edwardko2004/CS391-Project/internal/kafka"
)

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func message(t *testing.T, event kafka.ReservationEvent) kafkago.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafkago.Message{Topic: "reservations", Key: []byte(event.EventID), Value: value}
}

func TestMessageHandler_RecordsAndInvalidates(t *testing.T) {
	auditCore, audited := observer.New(zap.InfoLevel)
	inv := &MockInvalidator{}
	handle := NewMessageHandler(NewRecorderWithLogger(zap.New(auditCore)), inv, zap.NewNop())

	inv.On("Invalidate", mock.Anything, "e1").Return(errors.New("redis down")).Once()

	err := handle(context.Background(), message(t, kafka.ReservationEvent{Type: kafka.EventReservationCreated, EventID: "e1"}))
	require.NoError(t, err)
	err = handle(context.Background(), message(t, kafka.ReservationEvent{Type: kafka.EventReservationCheckedIn, EventID: "e1"}))
	require.NoError(t, err)

	assert.Equal(t, 2, audited.Len())
	inv.AssertExpectations(t)
}

func TestMessageHandler_SkipsBadMessages(t *testing.T) {
	auditCore, audited := observer.New(zap.InfoLevel)
	logCore, logged := observer.New(zap.WarnLevel)
	handle := NewMessageHandler(NewRecorderWithLogger(zap.New(auditCore)), nil, zap.New(logCore))

	require.NoError(t, handle(context.Background(), kafkago.Message{Value: []byte("not json")}))
	require.NoError(t, handle(context.Background(), message(t, kafka.ReservationEvent{Type: "bogus"})))

	assert.Zero(t, audited.Len())
	assert.Equal(t, 2, logged.Len())
}
