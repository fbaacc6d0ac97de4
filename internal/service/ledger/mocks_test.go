package ledger

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/repository"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListByOrganizer(ctx context.Context, organizerID string, upcoming bool, now time.Time) ([]domain.Event, error) {
	args := m.Called(ctx, organizerID, upcoming, now)
	return args.Get(0).([]domain.Event), args.Error(1)
}

// MockReservationRepository runs the admit callback against the
// repository.Admission returned as the first value of the Reserve expectation,
// the way a real store would inside its lock.
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Reserve(ctx context.Context, res *domain.Reservation, admit repository.AdmitFunc) error {
	args := m.Called(ctx, res, admit)
	if a, ok := args.Get(0).(repository.Admission); ok {
		if err := admit(a); err != nil {
			return err
		}
	}
	return args.Error(1)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByCode(ctx context.Context, eventID, code string) (*domain.Reservation, error) {
	args := m.Called(ctx, eventID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Reservation, bool, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Reservation), args.Bool(1), args.Error(2)
}

func (m *MockReservationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByProfile(ctx context.Context, profileID string, upcoming bool, now time.Time) ([]domain.ReservationWithEvent, error) {
	args := m.Called(ctx, profileID, upcoming, now)
	return args.Get(0).([]domain.ReservationWithEvent), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
