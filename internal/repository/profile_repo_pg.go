package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

// ErrProfileNotFound is returned when the identity provider has no profile for an id.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository reads the profile projection kept by the identity provider.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	// ListByIDs returns the profiles it finds among ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
}

type PGProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &PGProfileRepository{db: db}
}

func (r *PGProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx, `SELECT id, first_name, last_name, email FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, storeErr("get profile", err)
	}
	return &p, nil
}

func (r *PGProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, first_name, last_name, email FROM profiles WHERE id = ANY($1) ORDER BY last_name, first_name`, ids)
	if err != nil {
		return nil, storeErr("list profiles", err)
	}
	defer rows.Close()

	profiles := make([]domain.Profile, 0, len(ids))
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email); err != nil {
			return nil, storeErr("scan profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list profiles", err)
	}
	return profiles, nil
}

var _ ProfileRepository = (*PGProfileRepository)(nil)
