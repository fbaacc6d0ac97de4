package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrEventNotFound       = errors.New("event not found")
	ErrEventClosed         = errors.New("event is closed for reservations")
	ErrCapacityExceeded    = errors.New("event is fully reserved")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrStoreUnavailable    = errors.New("store unavailable")

	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyReserved = errors.New("profile already holds a reservation for this event")
	ErrInvalidEvent    = errors.New("invalid event")

	// ErrCodeConflict means the generated confirmation code is already taken.
	// The ledger regenerates on it; it never reaches handlers.
	ErrCodeConflict = errors.New("confirmation code already issued")
)

func invalidEvent(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, msg)
}
