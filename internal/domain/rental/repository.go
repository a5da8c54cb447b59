package rental

import (
	"context"
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
)

// Repository persists rentals. Methods called inside a transaction pick the
// transactional handle up from ctx.
type Repository interface {
	// LockInventory takes a row lock on the unit for the rest of the transaction.
	// Returns ErrInventoryNotFound when the unit does not exist.
	LockInventory(ctx context.Context, inventoryID int64) error

	// HasOpenRental reports whether the unit is currently checked out.
	HasOpenRental(ctx context.Context, inventoryID int64) (bool, error)

	// Create inserts r and fills r.ID. A storage-level uniqueness violation on
	// the open rental of the unit maps to ErrUnitAlreadyRented.
	Create(ctx context.Context, r *Rental) error

	// LockByID loads and row-locks a rental, or returns ErrRentalNotFound.
	LockByID(ctx context.Context, id int64) (*Rental, error)

	// MarkReturned persists return_date and last_update.
	MarkReturned(ctx context.Context, id int64, at time.Time) error

	// RentalRate reads the rate of the film held by the unit.
	RentalRate(ctx context.Context, inventoryID int64) (money.Amount, error)

	// Delete removes the rental row.
	Delete(ctx context.Context, id int64) error

	// FindDetail loads the joined view of a rental, or returns ErrRentalNotFound.
	FindDetail(ctx context.Context, id int64) (*Detail, error)

	// List returns rentals newest first plus the filtered total.
	List(ctx context.Context, filter ListFilter) ([]Summary, int64, error)

	// ListByCustomer returns a customer's rentals newest first.
	ListByCustomer(ctx context.Context, customerID int64) ([]CustomerRental, error)
}

// PaymentRepository persists the payment recorded when a rental is returned.
type PaymentRepository interface {
	ExistsForRental(ctx context.Context, rentalID int64) (bool, error)

	// Create inserts p unless the rental already has a payment; the boolean
	// reports whether a row was written.
	Create(ctx context.Context, p *Payment) (bool, error)

	// DeleteByRental removes every payment of the rental and reports how many.
	DeleteByRental(ctx context.Context, rentalID int64) (int64, error)
}
