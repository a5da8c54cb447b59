package rental

import (
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
)

// Status is the lifecycle state of a rental.
type Status string

const (
	StatusActive   Status = "active"   // return_date is NULL
	StatusReturned Status = "returned" // return_date set
)

// Label is the display label carried in listings.
func (s Status) Label() string {
	if s == StatusActive {
		return "Activa"
	}
	return "Devuelta"
}

// ParseStatus accepts "", "active" or "returned". The empty string means no filter.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusActive, StatusReturned:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// StatusOf derives the state from a nullable return date.
func StatusOf(returnDate *time.Time) Status {
	if returnDate == nil {
		return StatusActive
	}
	return StatusReturned
}

// Rental is one checkout of an inventory unit.
// RentalDate never changes after creation; ReturnDate is nil while the unit is out.
type Rental struct {
	ID          int64
	RentalDate  time.Time
	InventoryID int64
	CustomerID  int64
	StaffID     int64
	ReturnDate  *time.Time
	LastUpdate  time.Time
}

// New opens a rental at the given instant.
func New(customerID, inventoryID, staffID int64, at time.Time) (*Rental, error) {
	if customerID <= 0 || inventoryID <= 0 || staffID <= 0 {
		return nil, ErrMissingFields
	}
	return &Rental{
		RentalDate:  at,
		InventoryID: inventoryID,
		CustomerID:  customerID,
		StaffID:     staffID,
		LastUpdate:  at,
	}, nil
}

func (r *Rental) IsOpen() bool {
	return r.ReturnDate == nil
}

func (r *Rental) Status() Status {
	return StatusOf(r.ReturnDate)
}

// Return closes an open rental. A returned rental is left untouched and the
// error carries its existing return date.
func (r *Rental) Return(at time.Time) error {
	if !r.IsOpen() {
		return ErrAlreadyReturned.WithDetails(map[string]any{"return_date": *r.ReturnDate})
	}
	r.ReturnDate = &at
	r.LastUpdate = at
	return nil
}

// Payment settles a returned rental. There is at most one per rental.
type Payment struct {
	ID          int64
	CustomerID  int64
	StaffID     int64
	RentalID    int64
	Amount      money.Amount
	PaymentDate time.Time
}

// NewPayment bills the rental's customer for rate, attributed to the rental's staff member.
func NewPayment(r *Rental, rate money.Amount, at time.Time) *Payment {
	return &Payment{
		CustomerID:  r.CustomerID,
		StaffID:     r.StaffID,
		RentalID:    r.ID,
		Amount:      rate,
		PaymentDate: at,
	}
}

// Summary is a rental row in the paginated listing.
type Summary struct {
	RentalID     int64
	RentalDate   time.Time
	ReturnDate   *time.Time
	CustomerID   int64
	CustomerName string
	FilmID       int64
	FilmTitle    string
	StaffID      int64
	StaffName    string
}

func (s Summary) Status() Status { return StatusOf(s.ReturnDate) }

// Detail is a rental joined with its customer, film and staff member.
type Detail struct {
	RentalID        int64
	RentalDate      time.Time
	ReturnDate      *time.Time
	InventoryID     int64
	CustomerID      int64
	CustomerName    string
	CustomerEmail   string
	FilmID          int64
	FilmTitle       string
	FilmDescription string
	RentalRate      money.Amount
	StaffID         int64
	StaffName       string
}

// CustomerRental is one line of a customer's rental history.
type CustomerRental struct {
	RentalID   int64
	RentalDate time.Time
	ReturnDate *time.Time
	FilmTitle  string
	RentalRate money.Amount
	StaffName  string
}

func (c CustomerRental) Status() Status { return StatusOf(c.ReturnDate) }

// ReturnResult is the outcome of closing a rental. Payment is nil when an
// existing payment made the insert a no-op.
type ReturnResult struct {
	RentalID   int64
	ReturnDate time.Time
	Payment    *Payment
}

// CancelResult is the outcome of deleting a rental. CancelledAt is not persisted.
type CancelResult struct {
	RentalID    int64
	CancelledAt time.Time
}

// ListFilter narrows the rental listing.
type ListFilter struct {
	Status Status
	Offset int
	Limit  int
}
