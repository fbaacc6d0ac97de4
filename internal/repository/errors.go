package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

const (
	pgUniqueViolation = "23505"

	confirmationCodeIndex = "reservations_confirmation_code_key"
)

// storeErr tags an infrastructure failure with domain.ErrStoreUnavailable.
// Cancellation stays as is: the caller gave up, the store did not fail.
func storeErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
