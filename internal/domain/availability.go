package domain

import "time"

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierOut    Tier = "out"
	TierOver   Tier = "over"
)

var tierLabels = map[Tier]string{
	TierHigh:   "Plenty Available",
	TierMedium: "Limited Seats",
	TierLow:    "Almost Gone!",
	TierOut:    "Fully Reserved",
	TierOver:   "Event Ended",
}

func (t Tier) Label() string {
	return tierLabels[t]
}

// TierFor classifies a reserved percentage for display. It has no say in
// whether a reservation is admitted.
func TierFor(reservedPercent float64, ended bool) Tier {
	switch {
	case ended:
		return TierOver
	case reservedPercent < 60:
		return TierHigh
	case reservedPercent < 80:
		return TierMedium
	case reservedPercent < 100:
		return TierLow
	default:
		return TierOut
	}
}

// ReservedPercent treats a non-positive capacity as full so that the tier
// agrees with Event.Admit, which refuses every reservation in that case.
func ReservedPercent(reserved, capacity int) float64 {
	if capacity <= 0 {
		return 100
	}
	return float64(reserved) / float64(capacity) * 100
}

type Availability struct {
	EventID   string    `json:"event_id"`
	StartsAt  time.Time `json:"starts_at"`
	Reserved  int       `json:"reserved"`
	Capacity  int       `json:"capacity"`
	SeatsLeft int       `json:"seats_left"`
	Percent   float64   `json:"percent"`
	Tier      Tier      `json:"tier"`
	Label     string    `json:"label"`
}

// At re-derives the tier for now. Counts are kept as they were computed.
func (a Availability) At(now time.Time) Availability {
	a.Tier = TierFor(a.Percent, !now.Before(a.StartsAt))
	a.Label = a.Tier.Label()
	return a
}

// AvailabilityOf derives the display availability of an event at now.
func AvailabilityOf(e *Event, now time.Time) Availability {
	percent := ReservedPercent(e.ReservationsCount, e.Capacity)
	tier := TierFor(percent, e.HasStarted(now))
	return Availability{
		EventID:   e.ID,
		StartsAt:  e.StartsAt,
		Reserved:  e.ReservationsCount,
		Capacity:  e.Capacity,
		SeatsLeft: e.SeatsLeft(),
		Percent:   percent,
		Tier:      tier,
		Label:     tier.Label(),
	}
}
