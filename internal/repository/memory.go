package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

// MemoryStore keeps profiles, events and reservations in process. One lock
// guards all three maps, so an admission check and its insert can never
// interleave with another reservation.
type MemoryStore struct {
	mu           sync.RWMutex
	profiles     map[string]domain.Profile
	events       map[string]domain.Event
	reservations map[string]domain.Reservation
	// codes indexes reservations by upper-cased confirmation code.
	codes map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:     make(map[string]domain.Profile),
		events:       make(map[string]domain.Event),
		reservations: make(map[string]domain.Reservation),
		codes:        make(map[string]string),
	}
}

// PutProfile inserts or replaces a profile.
func (s *MemoryStore) PutProfile(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *MemoryStore) Events() EventRepository {
	return memoryEvents{s}
}

func (s *MemoryStore) Reservations() ReservationRepository {
	return memoryReservations{s}
}

func (s *MemoryStore) Profiles() ProfileRepository {
	return memoryProfiles{s}
}

// countLocked must be called with s.mu held.
func (s *MemoryStore) countLocked(eventID, profileID string) (total, held int) {
	for _, r := range s.reservations {
		if r.EventID != eventID {
			continue
		}
		total++
		if r.ProfileID == profileID {
			held++
		}
	}
	return total, held
}

func (s *MemoryStore) eventLocked(id string) domain.Event {
	e := s.events[id]
	e.Tags = slices.Clone(e.Tags)
	e.ReservationsCount, _ = s.countLocked(id, "")
	return e
}

type memoryEvents struct{ s *MemoryStore }

func (m memoryEvents) Create(ctx context.Context, e *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if e.Tags == nil {
		e.Tags = []string{}
	}
	e.CreatedAt = time.Now().UTC()
	stored := *e
	stored.Tags = slices.Clone(e.Tags)
	stored.ReservationsCount = 0
	m.s.events[e.ID] = stored
	return nil
}

func (m memoryEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	if _, ok := m.s.events[id]; !ok {
		return nil, domain.ErrEventNotFound
	}
	e := m.s.eventLocked(id)
	return &e, nil
}

func (m memoryEvents) List(ctx context.Context) ([]domain.Event, error) {
	return m.filter(ctx, func(domain.Event) bool { return true }, true)
}

func (m memoryEvents) ListByOrganizer(ctx context.Context, organizerID string, upcoming bool, now time.Time) ([]domain.Event, error) {
	return m.filter(ctx, func(e domain.Event) bool {
		return e.OrganizerID == organizerID && e.StartsAt.After(now) == upcoming
	}, upcoming)
}

func (m memoryEvents) filter(ctx context.Context, keep func(domain.Event) bool, ascending bool) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]domain.Event, 0)
	for id, e := range m.s.events {
		if keep(e) {
			out = append(out, m.s.eventLocked(id))
		}
	}
	sortByStart(out, func(e domain.Event) time.Time { return e.StartsAt }, ascending)
	return out, nil
}

type memoryReservations struct{ s *MemoryStore }

func (m memoryReservations) Reserve(ctx context.Context, res *domain.Reservation, admit AdmitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.events[res.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	e := m.s.eventLocked(res.EventID)
	total, held := m.s.countLocked(res.EventID, res.ProfileID)
	if err := admit(Admission{Event: &e, Reserved: total, Held: held}); err != nil {
		return err
	}

	key := strings.ToUpper(res.ConfirmationCode)
	if _, taken := m.s.codes[key]; taken {
		return domain.ErrCodeConflict
	}

	res.IsCheckedIn = false
	res.CheckedInAt = nil
	res.CreatedAt = time.Now().UTC()
	m.s.reservations[res.ID] = *res
	m.s.codes[key] = res.ID
	return nil
}

func (m memoryReservations) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	r, ok := m.s.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return &r, nil
}

func (m memoryReservations) GetByCode(ctx context.Context, eventID, code string) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	id, ok := m.s.codes[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	r := m.s.reservations[id]
	if r.EventID != eventID {
		return nil, domain.ErrReservationNotFound
	}
	return &r, nil
}

func (m memoryReservations) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Reservation, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	r, ok := m.s.reservations[id]
	if !ok {
		return nil, false, domain.ErrReservationNotFound
	}
	changed := r.MarkCheckedIn(at)
	m.s.reservations[id] = r
	return &r, changed, nil
}

func (m memoryReservations) ListByEvent(ctx context.Context, eventID string) ([]domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]domain.Reservation, 0)
	for _, r := range m.s.reservations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sortByStart(out, func(r domain.Reservation) time.Time { return r.CreatedAt }, true)
	return out, nil
}

func (m memoryReservations) ListByProfile(ctx context.Context, profileID string, upcoming bool, now time.Time) ([]domain.ReservationWithEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]domain.ReservationWithEvent, 0)
	for _, r := range m.s.reservations {
		if r.ProfileID != profileID {
			continue
		}
		e := m.s.eventLocked(r.EventID)
		if e.StartsAt.After(now) != upcoming {
			continue
		}
		out = append(out, domain.ReservationWithEvent{Reservation: r, Event: e})
	}
	sortByStart(out, func(r domain.ReservationWithEvent) time.Time { return r.Event.StartsAt }, upcoming)
	return out, nil
}

type memoryProfiles struct{ s *MemoryStore }

func (m memoryProfiles) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, ok := m.s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (m memoryProfiles) ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]domain.Profile, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, ok := m.s.profiles[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	return out, nil
}

func sortByStart[T any](items []T, at func(T) time.Time, ascending bool) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := at(a).Compare(at(b))
		if !ascending {
			c = -c
		}
		return c
	})
}

var (
	_ EventRepository       = memoryEvents{}
	_ ReservationRepository = memoryReservations{}
	_ ProfileRepository     = memoryProfiles{}
)
