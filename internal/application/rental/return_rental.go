package rental

import (
	"context"
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/pkg/logging"
	"github.com/xiebiao/dvdrental/pkg/metrics"
	"github.com/xiebiao/dvdrental/pkg/tracing"
)

type ReturnRentalUseCase struct {
	rentals  rental.Repository
	payments rental.PaymentRepository
	tx       TxRunner
	events   rental.EventPublisher
	now      Clock
}

func NewReturnRentalUseCase(
	rentals rental.Repository,
	payments rental.PaymentRepository,
	tx TxRunner,
	events rental.EventPublisher,
	now Clock,
) *ReturnRentalUseCase {
	return &ReturnRentalUseCase{rentals: rentals, payments: payments, tx: tx, events: events, now: now}
}

// Execute closes an open rental and bills it once. A payment that already
// exists for the rental is left alone and the result carries no payment.
func (uc *ReturnRentalUseCase) Execute(ctx context.Context, rentalID int64) (_ *rental.ReturnResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReturnRental")
	start := time.Now()
	defer func() {
		tracing.End(span, err)
		metrics.ObserveRentalOperation("return", outcome(err), time.Since(start))
	}()

	t := uc.now()
	var (
		result *rental.ReturnResult
		locked *rental.Rental
	)
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		r, err := uc.rentals.LockByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if err := r.Return(t); err != nil {
			return err
		}
		if err := uc.rentals.MarkReturned(ctx, r.ID, t); err != nil {
			return err
		}
		rate, err := uc.rentals.RentalRate(ctx, r.InventoryID)
		if err != nil {
			return err
		}

		locked = r
		result = &rental.ReturnResult{RentalID: r.ID, ReturnDate: t}

		paid, err := uc.payments.ExistsForRental(ctx, r.ID)
		if err != nil || paid {
			return err
		}
		p := rental.NewPayment(r, rate, t)
		created, err := uc.payments.Create(ctx, p)
		if err != nil {
			return err
		}
		if created {
			result.Payment = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := newEvent(rental.EventReturned, locked, t)
	log := logging.Ctx(ctx).Info().Int64("rental_id", result.RentalID)
	if result.Payment != nil {
		metrics.ObservePayment(result.Payment.Amount.Float64())
		amount := result.Payment.Amount
		event.Amount = &amount
		log = log.Str("amount", amount.String())
	}
	log.Msg("rental returned")
	publish(ctx, uc.events, event)
	return result, nil
}
