package domain

import "time"

type Reservation struct {
	ID               string
	EventID          string
	ProfileID        string
	ConfirmationCode string
	IsCheckedIn      bool
	CheckedInAt      *time.Time
	CreatedAt        time.Time
}

// MarkCheckedIn moves the reservation to checked_in. The first timestamp
// wins; it reports false when the reservation was already checked in.
func (r *Reservation) MarkCheckedIn(at time.Time) bool {
	if r.IsCheckedIn {
		return false
	}
	r.IsCheckedIn = true
	r.CheckedInAt = &at
	return true
}

// ReservationWithEvent is a reservation joined with the event it claims a seat of.
type ReservationWithEvent struct {
	Reservation
	Event Event
}

// Attendee pairs a reservation with the profile holding it. Profile is nil
// when the identity provider no longer knows the holder.
type Attendee struct {
	Reservation
	Profile *Profile
}

// HostedEvent is an organizer's event together with everyone holding a seat.
type HostedEvent struct {
	Event     Event
	Attendees []Attendee
}

type CheckInStats struct {
	CheckedIn    int `json:"checked_in"`
	NotCheckedIn int `json:"not_checked_in"`
	Total        int `json:"total"`
}

func (h *HostedEvent) Stats() CheckInStats {
	stats := CheckInStats{Total: len(h.Attendees)}
	for _, r := range h.Attendees {
		if r.IsCheckedIn {
			stats.CheckedIn++
		}
	}
	stats.NotCheckedIn = stats.Total - stats.CheckedIn
	return stats
}
