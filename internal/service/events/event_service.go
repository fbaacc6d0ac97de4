package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/logger"
	"github.com/Edwardko2004/CS391-Project/internal/repository"
)

type EventUseCase interface {
	Create(ctx context.Context, caller domain.Caller, input domain.CreateEventInput) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Availability(ctx context.Context, id string) (domain.Availability, error)
}

type Cache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
	GetAvailability(ctx context.Context, eventID string) (*domain.Availability, error)
	SetAvailability(ctx context.Context, a domain.Availability) error
	Invalidate(ctx context.Context, eventID string) error
}

// AvailabilitySource computes availability from the store. The ledger is the
// only implementation.
type AvailabilitySource interface {
	Availability(ctx context.Context, eventID string) (domain.Availability, error)
}

type EventService struct {
	repo     repository.EventRepository
	profiles repository.ProfileRepository
	source   AvailabilitySource
	cache    Cache
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*EventService)

func WithCache(c Cache) Option {
	return func(s *EventService) { s.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *EventService) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *EventService) { s.now = now }
}

func NewEventService(repo repository.EventRepository, profiles repository.ProfileRepository, source AvailabilitySource, opts ...Option) *EventService {
	s := &EventService{repo: repo, profiles: profiles, source: source, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ EventUseCase = (*EventService)(nil)

// Create stores a new event owned by caller.
func (s *EventService) Create(ctx context.Context, caller domain.Caller, input domain.CreateEventInput) (*domain.Event, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if _, err := s.profiles.GetByID(ctx, caller.ProfileID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}

	input.Normalize()
	if err := input.Validate(s.now()); err != nil {
		return nil, err
	}

	event := &domain.Event{
		ID:              uuid.NewString(),
		OrganizerID:     caller.ProfileID,
		Title:           input.Title,
		Description:     input.Description,
		Location:        input.Location,
		Tags:            input.Tags,
		Capacity:        input.Capacity,
		StartsAt:        input.StartsAt.UTC(),
		DurationMinutes: input.DurationMinutes,
		Status:          input.Status,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.log).Info("event created",
		zap.String("event_id", event.ID),
		zap.String("organizer_id", event.OrganizerID),
		zap.Int("capacity", event.Capacity))
	s.invalidate(ctx, "")
	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvents(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetEvents(ctx, events)
	}
	return events, nil
}

func (s *EventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrEventNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Availability serves the display tier from cache when it can. Admission
// never reads this value. The ended tier is re-derived on every hit; a count
// written back by a lookup racing an invalidation stays stale for at most
// the availability TTL.
func (s *EventService) Availability(ctx context.Context, id string) (domain.Availability, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAvailability(ctx, id); err == nil && cached != nil {
			return cached.At(s.now()), nil
		}
	}

	a, err := s.source.Availability(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}
	if s.cache != nil {
		_ = s.cache.SetAvailability(ctx, a)
	}
	return a, nil
}

func (s *EventService) invalidate(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		logger.FromContext(ctx, s.log).Warn("invalidate event cache failed", zap.Error(err))
	}
}
