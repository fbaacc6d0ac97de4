// Package telemetry holds the OpenTelemetry instruments the ledger records.
// Instruments come from the global meter provider, which is a no-op until an
// exporter is installed.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Edwardko2004/CS391-Project/ledger"

type LedgerMetrics struct {
	reserved metric.Int64Counter
	rejected metric.Int64Counter
	checkIns metric.Int64Counter
	retries  metric.Int64Counter
}

func NewLedgerMetrics() (*LedgerMetrics, error) {
	meter := otel.Meter(meterName)

	reserved, err := meter.Int64Counter("ledger.reservations.created",
		metric.WithDescription("Reservations issued"),
		metric.WithUnit("{reservation}"))
	if err != nil {
		return nil, err
	}
	rejected, err := meter.Int64Counter("ledger.reservations.rejected",
		metric.WithDescription("Reservation attempts refused, by reason"),
		metric.WithUnit("{reservation}"))
	if err != nil {
		return nil, err
	}
	checkIns, err := meter.Int64Counter("ledger.checkins",
		metric.WithDescription("First-time check-ins"),
		metric.WithUnit("{checkin}"))
	if err != nil {
		return nil, err
	}
	retries, err := meter.Int64Counter("ledger.code.regenerations",
		metric.WithDescription("Confirmation codes regenerated after a collision"))
	if err != nil {
		return nil, err
	}

	return &LedgerMetrics{reserved: reserved, rejected: rejected, checkIns: checkIns, retries: retries}, nil
}

// The methods below accept a nil receiver so tests can leave metrics unset.

func (m *LedgerMetrics) Reserved(ctx context.Context, eventID string) {
	if m == nil {
		return
	}
	m.reserved.Add(ctx, 1, metric.WithAttributes(attribute.String("event_id", eventID)))
}

func (m *LedgerMetrics) Rejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *LedgerMetrics) CheckedIn(ctx context.Context, eventID string) {
	if m == nil {
		return
	}
	m.checkIns.Add(ctx, 1, metric.WithAttributes(attribute.String("event_id", eventID)))
}

func (m *LedgerMetrics) CodeRegenerated(ctx context.Context) {
	if m == nil {
		return
	}
	m.retries.Add(ctx, 1)
}
