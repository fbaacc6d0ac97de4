package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

// Admission is what a reservation attempt is judged on. The store builds it
// while it holds the event exclusively.
type Admission struct {
	Event *domain.Event
	// Reserved counts every reservation on the event.
	Reserved int
	// Held counts the reservations the requesting profile already has on it.
	Held int
}

// AdmitFunc returns nil to let the insert proceed or a domain error to refuse it.
type AdmitFunc func(Admission) error

type ReservationRepository interface {
	// Reserve atomically runs admit against the current event state and, when
	// it passes, inserts res. A taken confirmation code yields domain.ErrCodeConflict.
	Reserve(ctx context.Context, res *domain.Reservation, admit AdmitFunc) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	GetByCode(ctx context.Context, eventID, code string) (*domain.Reservation, error)
	// MarkCheckedIn sets the checked-in flag, keeping the first timestamp. The
	// bool reports whether this call performed the transition.
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Reservation, bool, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Reservation, error)
	ListByProfile(ctx context.Context, profileID string, upcoming bool, now time.Time) ([]domain.ReservationWithEvent, error)
}

const reservationColumns = `r.id, r.event_id, r.profile_id, r.confirmation_code, r.is_checked_in, r.checked_in_at, r.created_at`

func scanReservation(row rowScanner, res *domain.Reservation) error {
	return row.Scan(&res.ID, &res.EventID, &res.ProfileID, &res.ConfirmationCode, &res.IsCheckedIn, &res.CheckedInAt, &res.CreatedAt)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

// Reserve serialises attempts on one event with SELECT ... FOR UPDATE on the
// event row: a second transaction blocks on the lock until the first commits,
// then counts the row the first one inserted.
func (r *PGReservationRepository) Reserve(ctx context.Context, res *domain.Reservation, admit AdmitFunc) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return storeErr("begin reserve", err)
	}
	defer tx.Rollback(ctx)

	var e domain.Event
	err = tx.QueryRow(ctx, `SELECT id, organizer_id, title, capacity, starts_at, duration_minutes, status
		FROM events WHERE id = $1 FOR UPDATE`, res.EventID).
		Scan(&e.ID, &e.OrganizerID, &e.Title, &e.Capacity, &e.StartsAt, &e.DurationMinutes, &e.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return storeErr("lock event", err)
	}

	var reserved, held int
	if err := tx.QueryRow(ctx, `SELECT count(*), count(*) FILTER (WHERE profile_id = $2)
		FROM reservations WHERE event_id = $1`, res.EventID, res.ProfileID).Scan(&reserved, &held); err != nil {
		return storeErr("count reservations", err)
	}
	e.ReservationsCount = reserved

	if err := admit(Admission{Event: &e, Reserved: reserved, Held: held}); err != nil {
		return err
	}

	res.IsCheckedIn = false
	res.CheckedInAt = nil
	err = tx.QueryRow(ctx, `INSERT INTO reservations (id, event_id, profile_id, confirmation_code, is_checked_in)
		VALUES ($1, $2, $3, $4, false)
		RETURNING created_at`, res.ID, res.EventID, res.ProfileID, res.ConfirmationCode).Scan(&res.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, confirmationCodeIndex) {
			return domain.ErrCodeConflict
		}
		return storeErr("insert reservation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit reservation", err)
	}
	return nil
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.getOne(ctx, "get reservation", `SELECT `+reservationColumns+` FROM reservations r WHERE r.id = $1`, id)
}

func (r *PGReservationRepository) GetByCode(ctx context.Context, eventID, code string) (*domain.Reservation, error) {
	return r.getOne(ctx, "get reservation by code",
		`SELECT `+reservationColumns+` FROM reservations r
		WHERE upper(r.confirmation_code) = upper($2) AND r.event_id = $1`, eventID, code)
}

func (r *PGReservationRepository) getOne(ctx context.Context, op, sql string, args ...any) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := scanReservation(r.db.QueryRow(ctx, sql, args...), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, storeErr(op, err)
	}
	return &res, nil
}

func (r *PGReservationRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Reservation, bool, error) {
	var res domain.Reservation
	err := scanReservation(r.db.QueryRow(ctx, `UPDATE reservations r
		SET is_checked_in = true, checked_in_at = $2
		WHERE r.id = $1 AND NOT r.is_checked_in
		RETURNING `+reservationColumns, id, at), &res)
	if err == nil {
		return &res, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, storeErr("check in reservation", err)
	}

	// Either unknown or already checked in; the read tells which.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *PGReservationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations r
		WHERE r.event_id = $1 ORDER BY r.created_at`, eventID)
	if err != nil {
		return nil, storeErr("list event reservations", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, storeErr("list event reservations", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list event reservations", err)
	}
	return reservations, nil
}

func (r *PGReservationRepository) ListByProfile(ctx context.Context, profileID string, upcoming bool, now time.Time) ([]domain.ReservationWithEvent, error) {
	order := "ASC"
	if !upcoming {
		order = "DESC"
	}
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+`, `+eventColumns+`
		FROM reservations r JOIN events e ON e.id = r.event_id
		WHERE r.profile_id = $1 AND (e.starts_at > $2) = $3
		ORDER BY e.starts_at `+order, profileID, now, upcoming)
	if err != nil {
		return nil, storeErr("list profile reservations", err)
	}
	defer rows.Close()

	out := make([]domain.ReservationWithEvent, 0)
	for rows.Next() {
		var item domain.ReservationWithEvent
		res, e := &item.Reservation, &item.Event
		if err := rows.Scan(&res.ID, &res.EventID, &res.ProfileID, &res.ConfirmationCode, &res.IsCheckedIn, &res.CheckedInAt, &res.CreatedAt,
			&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location, &e.Tags, &e.Capacity,
			&e.StartsAt, &e.DurationMinutes, &e.Status, &e.CreatedAt, &e.ReservationsCount); err != nil {
			return nil, storeErr("list profile reservations", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list profile reservations", err)
	}
	return out, nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
