// Package rental holds the rental lifecycle use cases. Each mutation runs in
// one transaction and publishes its event only after commit.
package rental

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/dvdrental/internal/domain/rental"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
	"github.com/xiebiao/dvdrental/pkg/logging"
)

const tracerName = "rental"

// TxRunner runs fn in one unit of work; repositories called with the ctx
// handed to fn join it.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

// outcome labels an operation result for metrics.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindConflict:
		return "conflict"
	case apperrors.KindValidation:
		return "invalid"
	case apperrors.KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}

func newEvent(typ string, r *rental.Rental, at time.Time) rental.Event {
	return rental.Event{
		ID:          uuid.NewString(),
		Type:        typ,
		RentalID:    r.ID,
		InventoryID: r.InventoryID,
		CustomerID:  r.CustomerID,
		StaffID:     r.StaffID,
		OccurredAt:  at,
	}
}

// publish is best effort: the change is already committed.
func publish(ctx context.Context, events rental.EventPublisher, e rental.Event) {
	if err := events.Publish(ctx, e); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("event", e.Type).
			Int64("rental_id", e.RentalID).
			Msg("rental event not published")
	}
}
