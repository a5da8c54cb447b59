package rental

import (
	"context"
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/pkg/logging"
	"github.com/xiebiao/dvdrental/pkg/metrics"
	"github.com/xiebiao/dvdrental/pkg/tracing"
)

type CancelRentalUseCase struct {
	rentals  rental.Repository
	payments rental.PaymentRepository
	tx       TxRunner
	events   rental.EventPublisher
	now      Clock
}

func NewCancelRentalUseCase(
	rentals rental.Repository,
	payments rental.PaymentRepository,
	tx TxRunner,
	events rental.EventPublisher,
	now Clock,
) *CancelRentalUseCase {
	return &CancelRentalUseCase{rentals: rentals, payments: payments, tx: tx, events: events, now: now}
}

// Execute deletes a rental and its payments. Returned rentals may be
// cancelled too; that case is logged at warn level since it drops a payment.
func (uc *CancelRentalUseCase) Execute(ctx context.Context, rentalID int64) (_ *rental.CancelResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CancelRental")
	start := time.Now()
	defer func() {
		tracing.End(span, err)
		metrics.ObserveRentalOperation("cancel", outcome(err), time.Since(start))
	}()

	t := uc.now()
	var (
		cancelled *rental.Rental
		removed   int64
	)
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		r, err := uc.rentals.LockByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if removed, err = uc.payments.DeleteByRental(ctx, r.ID); err != nil {
			return err
		}
		if err := uc.rentals.Delete(ctx, r.ID); err != nil {
			return err
		}
		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logging.Ctx(ctx)
	if !cancelled.IsOpen() {
		log.Warn().
			Int64("rental_id", cancelled.ID).
			Time("return_date", *cancelled.ReturnDate).
			Int64("payments_removed", removed).
			Msg("cancelled a rental that was already returned")
	} else {
		log.Info().Int64("rental_id", cancelled.ID).Msg("rental cancelled")
	}
	publish(ctx, uc.events, newEvent(rental.EventCancelled, cancelled, t))
	return &rental.CancelResult{RentalID: cancelled.ID, CancelledAt: t}, nil
}
