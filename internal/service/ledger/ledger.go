// Package ledger owns reservations: it admits them against event capacity,
// issues confirmation codes and records check-ins.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/kafka"
	"github.com/Edwardko2004/CS391-Project/internal/logger"
	"github.com/Edwardko2004/CS391-Project/internal/repository"
	"github.com/Edwardko2004/CS391-Project/internal/telemetry"
)

type UseCase interface {
	Reserve(ctx context.Context, caller domain.Caller, eventID string) (*domain.Reservation, error)
	CheckIn(ctx context.Context, caller domain.Caller, reservationID string) (*domain.Reservation, error)
	CheckInByCode(ctx context.Context, caller domain.Caller, eventID, code string) (*domain.Reservation, error)
	VerifyCode(ctx context.Context, caller domain.Caller, eventID, code string) (*domain.Reservation, error)
	Availability(ctx context.Context, eventID string) (domain.Availability, error)
	OwnedReservation(ctx context.Context, caller domain.Caller, reservationID string) (*domain.Reservation, error)
	UpcomingReservations(ctx context.Context, caller domain.Caller) ([]domain.ReservationWithEvent, error)
	PastReservations(ctx context.Context, caller domain.Caller) ([]domain.ReservationWithEvent, error)
	HostedEvents(ctx context.Context, caller domain.Caller, upcoming bool) ([]domain.HostedEvent, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Invalidator drops cached views of an event after its reservations change.
type Invalidator interface {
	Invalidate(ctx context.Context, eventID string) error
}

type Service struct {
	events       repository.EventRepository
	reservations repository.ReservationRepository
	profiles     repository.ProfileRepository

	producer    Producer
	topic       string
	invalidator Invalidator
	metrics     *telemetry.LedgerMetrics
	log         *zap.Logger
	now         func() time.Time

	codeLength      int
	maxCodeAttempts int
	allowDuplicates bool
}

type Option func(*Service)

// WithProducer publishes reservation events to topic.
func WithProducer(p Producer, topic string) Option {
	return func(s *Service) {
		s.producer = p
		s.topic = topic
	}
}

func WithInvalidator(inv Invalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

func WithMetrics(m *telemetry.LedgerMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewLedgerService(
	events repository.EventRepository,
	reservations repository.ReservationRepository,
	profiles repository.ProfileRepository,
	cfg config.ReservationConfig,
	opts ...Option,
) *Service {
	s := &Service{
		events:          events,
		reservations:    reservations,
		profiles:        profiles,
		log:             zap.NewNop(),
		now:             time.Now,
		codeLength:      cfg.CodeLength,
		maxCodeAttempts: max(cfg.MaxCodeAttempts, 1),
		allowDuplicates: cfg.AllowDuplicates,
	}
	if s.codeLength == 0 {
		s.codeLength = domain.DefaultCodeLength
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ UseCase = (*Service)(nil)

func (s *Service) Reserve(ctx context.Context, caller domain.Caller, eventID string) (*domain.Reservation, error) {
	if err := s.resolveCaller(ctx, caller); err != nil {
		s.metrics.Rejected(ctx, rejectReason(err))
		return nil, err
	}
	if !validID(eventID) {
		s.metrics.Rejected(ctx, rejectReason(domain.ErrEventNotFound))
		return nil, domain.ErrEventNotFound
	}

	admit := func(a repository.Admission) error {
		if err := a.Event.Admit(a.Reserved, s.now()); err != nil {
			return err
		}
		if !s.allowDuplicates && a.Held > 0 {
			return domain.ErrAlreadyReserved
		}
		return nil
	}

	log := logger.FromContext(ctx, s.log)
	for attempt := 1; attempt <= s.maxCodeAttempts; attempt++ {
		code, err := domain.NewConfirmationCode(s.codeLength)
		if err != nil {
			return nil, fmt.Errorf("generate confirmation code: %w", err)
		}
		res := &domain.Reservation{
			ID:               uuid.NewString(),
			EventID:          eventID,
			ProfileID:        caller.ProfileID,
			ConfirmationCode: code,
		}

		err = s.reservations.Reserve(ctx, res, admit)
		if err == nil {
			s.metrics.Reserved(ctx, eventID)
			log.Info("reservation created",
				zap.String("reservation_id", res.ID),
				zap.String("event_id", eventID),
				zap.String("profile_id", caller.ProfileID))
			s.publish(ctx, kafka.EventReservationCreated, res)
			s.invalidate(ctx, eventID)
			return res, nil
		}
		if errors.Is(err, domain.ErrCodeConflict) {
			s.metrics.CodeRegenerated(ctx)
			log.Warn("confirmation code collision, regenerating", zap.Int("attempt", attempt))
			continue
		}

		s.metrics.Rejected(ctx, rejectReason(err))
		return nil, err
	}

	s.metrics.Rejected(ctx, rejectReason(domain.ErrStoreUnavailable))
	return nil, fmt.Errorf("%w: no unique confirmation code after %d attempts", domain.ErrStoreUnavailable, s.maxCodeAttempts)
}

func (s *Service) CheckIn(ctx context.Context, caller domain.Caller, reservationID string) (*domain.Reservation, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if !validID(reservationID) {
		return nil, domain.ErrReservationNotFound
	}
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return s.checkIn(ctx, caller, res)
}

// CheckInByCode checks in the reservation holding code within eventID.
func (s *Service) CheckInByCode(ctx context.Context, caller domain.Caller, eventID, code string) (*domain.Reservation, error) {
	res, err := s.VerifyCode(ctx, caller, eventID, code)
	if err != nil {
		return nil, err
	}
	return s.markCheckedIn(ctx, res)
}

// VerifyCode finds the reservation a code belongs to without changing it.
// Only the event's organizer may look codes up.
func (s *Service) VerifyCode(ctx context.Context, caller domain.Caller, eventID, code string) (*domain.Reservation, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if !validID(eventID) {
		return nil, domain.ErrEventNotFound
	}
	if _, err := s.organizedEvent(ctx, caller, eventID); err != nil {
		return nil, err
	}
	code = domain.NormalizeCode(code)
	if code == "" {
		return nil, domain.ErrReservationNotFound
	}
	return s.reservations.GetByCode(ctx, eventID, code)
}

func (s *Service) organizedEvent(ctx context.Context, caller domain.Caller, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != caller.ProfileID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *Service) checkIn(ctx context.Context, caller domain.Caller, res *domain.Reservation) (*domain.Reservation, error) {
	if _, err := s.organizedEvent(ctx, caller, res.EventID); err != nil {
		return nil, err
	}
	return s.markCheckedIn(ctx, res)
}

func (s *Service) markCheckedIn(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	updated, changed, err := s.reservations.MarkCheckedIn(ctx, res.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if changed {
		s.metrics.CheckedIn(ctx, res.EventID)
		logger.FromContext(ctx, s.log).Info("reservation checked in",
			zap.String("reservation_id", updated.ID),
			zap.String("event_id", updated.EventID))
		s.publish(ctx, kafka.EventReservationCheckedIn, updated)
	}
	return updated, nil
}

func (s *Service) Availability(ctx context.Context, eventID string) (domain.Availability, error) {
	if !validID(eventID) {
		return domain.Availability{}, domain.ErrEventNotFound
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.AvailabilityOf(event, s.now()), nil
}

// OwnedReservation returns a reservation only to the profile holding it.
func (s *Service) OwnedReservation(ctx context.Context, caller domain.Caller, reservationID string) (*domain.Reservation, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if !validID(reservationID) {
		return nil, domain.ErrReservationNotFound
	}
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.ProfileID != caller.ProfileID {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

func (s *Service) UpcomingReservations(ctx context.Context, caller domain.Caller) ([]domain.ReservationWithEvent, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return s.reservations.ListByProfile(ctx, caller.ProfileID, true, s.now())
}

func (s *Service) PastReservations(ctx context.Context, caller domain.Caller) ([]domain.ReservationWithEvent, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return s.reservations.ListByProfile(ctx, caller.ProfileID, false, s.now())
}

func (s *Service) HostedEvents(ctx context.Context, caller domain.Caller, upcoming bool) ([]domain.HostedEvent, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	events, err := s.events.ListByOrganizer(ctx, caller.ProfileID, upcoming, s.now())
	if err != nil {
		return nil, err
	}

	perEvent := make([][]domain.Reservation, len(events))
	var holders []string
	seen := make(map[string]bool)
	for i, e := range events {
		reservations, err := s.reservations.ListByEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		perEvent[i] = reservations
		for _, r := range reservations {
			if !seen[r.ProfileID] {
				seen[r.ProfileID] = true
				holders = append(holders, r.ProfileID)
			}
		}
	}

	profiles, err := s.attendeeProfiles(ctx, holders)
	if err != nil {
		return nil, err
	}

	hosted := make([]domain.HostedEvent, 0, len(events))
	for i, e := range events {
		attendees := make([]domain.Attendee, 0, len(perEvent[i]))
		for _, r := range perEvent[i] {
			a := domain.Attendee{Reservation: r}
			if p, ok := profiles[r.ProfileID]; ok {
				a.Profile = &p
			}
			attendees = append(attendees, a)
		}
		hosted = append(hosted, domain.HostedEvent{Event: e, Attendees: attendees})
	}
	return hosted, nil
}

func (s *Service) attendeeProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	byID := make(map[string]domain.Profile, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return byID, nil
}

// resolveCaller requires a caller with a profile known to the identity provider.
func (s *Service) resolveCaller(ctx context.Context, caller domain.Caller) error {
	if !caller.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	if _, err := s.profiles.GetByID(ctx, caller.ProfileID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domain.ErrNotAuthenticated
		}
		return err
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, res *domain.Reservation) {
	if s.producer == nil {
		return
	}
	event := kafka.ReservationEvent{
		Type:             eventType,
		ReservationID:    res.ID,
		EventID:          res.EventID,
		ProfileID:        res.ProfileID,
		ConfirmationCode: res.ConfirmationCode,
		OccurredAt:       s.now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.topic, res.EventID, event); err != nil {
		logger.FromContext(ctx, s.log).Warn("publish reservation event failed",
			zap.String("type", eventType),
			zap.String("reservation_id", res.ID),
			zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, eventID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, eventID); err != nil {
		logger.FromContext(ctx, s.log).Warn("invalidate event cache failed",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, domain.ErrEventClosed):
		return "event_closed"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrAlreadyReserved):
		return "already_reserved"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "store_unavailable"
	}
}
