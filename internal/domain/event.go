package domain

import (
	"strings"
	"time"
)

type EventStatus string

const (
	EventStatusOpen     EventStatus = "open"
	EventStatusClosed   EventStatus = "closed"
	EventStatusWaitlist EventStatus = "waitlist"
)

// MaxCapacity bounds a single event's seat count.
const MaxCapacity = 100_000

type Event struct {
	ID                string
	OrganizerID       string
	Title             string
	Description       string
	Location          string
	Tags              []string
	Capacity          int
	StartsAt          time.Time
	DurationMinutes   int
	Status            EventStatus
	ReservationsCount int
	CreatedAt         time.Time
}

// EndsAt is the start time plus the event duration.
func (e *Event) EndsAt() time.Time {
	return e.StartsAt.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// HasStarted reports whether the event start is at or before now.
func (e *Event) HasStarted(now time.Time) bool {
	return !now.Before(e.StartsAt)
}

// SeatsLeft never goes negative, even for rows that predate the capacity policy.
func (e *Event) SeatsLeft() int {
	if left := e.Capacity - e.ReservationsCount; left > 0 {
		return left
	}
	return 0
}

// Admit decides whether one more reservation fits, given the number of
// reservations already stored. It is evaluated while the store holds the
// event exclusively.
func (e *Event) Admit(reserved int, now time.Time) error {
	if e.Status == EventStatusClosed || e.HasStarted(now) {
		return ErrEventClosed
	}
	if reserved >= e.Capacity {
		return ErrCapacityExceeded
	}
	return nil
}

type CreateEventInput struct {
	Title           string
	Description     string
	Location        string
	Tags            []string
	Capacity        int
	StartsAt        time.Time
	DurationMinutes int
	Status          EventStatus
}

// Normalize trims the free-text fields and defaults the status to open.
func (in *CreateEventInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	if in.Status == "" {
		in.Status = EventStatusOpen
	}
}

func (in CreateEventInput) Validate(now time.Time) error {
	switch {
	case in.Title == "":
		return invalidEvent("title is required")
	case in.Capacity < 1:
		return invalidEvent("capacity must be a positive integer")
	case in.Capacity > MaxCapacity:
		return invalidEvent("capacity cannot exceed 100,000")
	case in.DurationMinutes < 0:
		return invalidEvent("time_length cannot be negative")
	case !in.StartsAt.After(now):
		return invalidEvent("event time must be in the future")
	}
	switch in.Status {
	case EventStatusOpen, EventStatusClosed, EventStatusWaitlist:
		return nil
	default:
		return invalidEvent("unknown status " + string(in.Status))
	}
}
