package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string, upcoming bool, now time.Time) ([]domain.Event, error)
}

// The reservation count is always derived from rows, never stored.
const eventColumns = `e.id, e.organizer_id, e.title, e.description, e.location, e.tags, e.capacity,
	e.starts_at, e.duration_minutes, e.status, e.created_at,
	(SELECT count(*) FROM reservations c WHERE c.event_id = e.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, e *domain.Event) error {
	return row.Scan(&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location, &e.Tags, &e.Capacity,
		&e.StartsAt, &e.DurationMinutes, &e.Status, &e.CreatedAt, &e.ReservationsCount)
}

type PGEventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) EventRepository {
	return &PGEventRepository{db: db}
}

func (r *PGEventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	err := r.db.QueryRow(ctx, `INSERT INTO events (id, organizer_id, title, description, location, tags, capacity, starts_at, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		e.ID, e.OrganizerID, e.Title, e.Description, e.Location, e.Tags, e.Capacity, e.StartsAt, e.DurationMinutes, e.Status).
		Scan(&e.CreatedAt)
	if err != nil {
		return storeErr("insert event", err)
	}
	return nil
}

func (r *PGEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, storeErr("get event", err)
	}
	return &e, nil
}

func (r *PGEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	return r.query(ctx, "list events", `SELECT `+eventColumns+` FROM events e ORDER BY e.starts_at`)
}

func (r *PGEventRepository) ListByOrganizer(ctx context.Context, organizerID string, upcoming bool, now time.Time) ([]domain.Event, error) {
	order := "ASC"
	if !upcoming {
		order = "DESC"
	}
	return r.query(ctx, "list hosted events",
		`SELECT `+eventColumns+` FROM events e
		WHERE e.organizer_id = $1 AND (e.starts_at > $2) = $3
		ORDER BY e.starts_at `+order,
		organizerID, now, upcoming)
}

func (r *PGEventRepository) query(ctx context.Context, op, sql string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, storeErr(op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return events, nil
}

var _ EventRepository = (*PGEventRepository)(nil)
