package rental

import (
	"context"
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/pkg/logging"
	"github.com/xiebiao/dvdrental/pkg/metrics"
	"github.com/xiebiao/dvdrental/pkg/tracing"
)

type CreateRentalUseCase struct {
	rentals rental.Repository
	tx      TxRunner
	events  rental.EventPublisher
	now     Clock
}

func NewCreateRentalUseCase(rentals rental.Repository, tx TxRunner, events rental.EventPublisher, now Clock) *CreateRentalUseCase {
	return &CreateRentalUseCase{rentals: rentals, tx: tx, events: events, now: now}
}

type CreateRentalRequest struct {
	CustomerID  int64
	InventoryID int64
	StaffID     int64
}

// Execute checks out one inventory unit.
//
// The inventory row is locked FOR UPDATE before looking for an open rental,
// so two concurrent checkouts of the same unit serialize and the second one
// sees the first one's rental. The unique guard on open rentals backs this up.
func (uc *CreateRentalUseCase) Execute(ctx context.Context, req CreateRentalRequest) (_ *rental.Detail, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateRental")
	start := time.Now()
	defer func() {
		tracing.End(span, err)
		metrics.ObserveRentalOperation("create", outcome(err), time.Since(start))
	}()

	t := uc.now()
	r, err := rental.New(req.CustomerID, req.InventoryID, req.StaffID, t)
	if err != nil {
		return nil, err
	}

	var detail *rental.Detail
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.rentals.LockInventory(ctx, r.InventoryID); err != nil {
			return err
		}
		open, err := uc.rentals.HasOpenRental(ctx, r.InventoryID)
		if err != nil {
			return err
		}
		if open {
			return rental.ErrUnitAlreadyRented
		}
		if err := uc.rentals.Create(ctx, r); err != nil {
			return err
		}
		detail, err = uc.rentals.FindDetail(ctx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// The response carries the instant captured above, not a re-read value.
	detail.RentalDate = t

	logging.Ctx(ctx).Info().
		Int64("rental_id", r.ID).
		Int64("inventory_id", r.InventoryID).
		Int64("customer_id", r.CustomerID).
		Msg("rental created")
	publish(ctx, uc.events, newEvent(rental.EventCreated, r, t))
	return detail, nil
}
