package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

type MockEventUseCase struct {
	mock.Mock
}

func (m *MockEventUseCase) Create(ctx context.Context, caller domain.Caller, input domain.CreateEventInput) (*domain.Event, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventUseCase) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventUseCase) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventUseCase) Availability(ctx context.Context, id string) (domain.Availability, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Availability), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) reservation(args mock.Arguments) (*domain.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockLedger) Reserve(ctx context.Context, caller domain.Caller, eventID string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, caller, eventID))
}

func (m *MockLedger) CheckIn(ctx context.Context, caller domain.Caller, reservationID string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, caller, reservationID))
}

func (m *MockLedger) CheckInByCode(ctx context.Context, caller domain.Caller, eventID, code string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, caller, eventID, code))
}

func (m *MockLedger) VerifyCode(ctx context.Context, caller domain.Caller, eventID, code string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, caller, eventID, code))
}

func (m *MockLedger) OwnedReservation(ctx context.Context, caller domain.Caller, reservationID string) (*domain.Reservation, error) {
	return m.reservation(m.Called(ctx, caller, reservationID))
}

func (m *MockLedger) Availability(ctx context.Context, eventID string) (domain.Availability, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(domain.Availability), args.Error(1)
}

func (m *MockLedger) UpcomingReservations(ctx context.Context, caller domain.Caller) ([]domain.ReservationWithEvent, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.ReservationWithEvent), args.Error(1)
}

func (m *MockLedger) PastReservations(ctx context.Context, caller domain.Caller) ([]domain.ReservationWithEvent, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.ReservationWithEvent), args.Error(1)
}

func (m *MockLedger) HostedEvents(ctx context.Context, caller domain.Caller, upcoming bool) ([]domain.HostedEvent, error) {
	args := m.Called(ctx, caller, upcoming)
	return args.Get(0).([]domain.HostedEvent), args.Error(1)
}
