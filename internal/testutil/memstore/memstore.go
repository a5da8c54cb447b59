// Package memstore is an in-memory rental store for tests. A transaction
// holds one mutex for its whole duration, which plays the part of the row
// locks, and restores a snapshot when fn fails.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

// Unit is an inventory unit and the film it holds.
type Unit struct {
	FilmID     int64
	FilmTitle  string
	RentalRate money.Amount
}

type Person struct {
	Name  string
	Email string
}

type Store struct {
	mu sync.Mutex

	Units     map[int64]Unit
	Customers map[int64]Person
	Staff     map[int64]Person

	rentals  map[int64]rental.Rental
	payments map[int64][]rental.Payment
	nextID   int64
	nextPay  int64

	// FailDelete, when set, is returned by the next rental Delete.
	FailDelete error
	// Transactions counts calls to Transaction.
	Transactions int
}

func New() *Store {
	return &Store{
		Units:     map[int64]Unit{},
		Customers: map[int64]Person{},
		Staff:     map[int64]Person{},
		rentals:   map[int64]rental.Rental{},
		payments:  map[int64][]rental.Payment{},
		nextID:    16049,
		nextPay:   32098,
	}
}

var errForeignKey = apperrors.Constraint(errors.New("foreign key violation"), "create rental")

func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transactions++

	rentals := make(map[int64]rental.Rental, len(s.rentals))
	for k, v := range s.rentals {
		rentals[k] = v
	}
	payments := make(map[int64][]rental.Payment, len(s.payments))
	for k, v := range s.payments {
		payments[k] = append([]rental.Payment(nil), v...)
	}
	nextID, nextPay := s.nextID, s.nextPay

	if err := fn(ctx); err != nil {
		s.rentals, s.payments, s.nextID, s.nextPay = rentals, payments, nextID, nextPay
		return err
	}
	return nil
}

// Seed stores a rental directly, outside any transaction.
func (s *Store) Seed(r rental.Rental) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rentals[r.ID] = r
	if r.ID > s.nextID {
		s.nextID = r.ID
	}
}

// SeedPayment stores a payment directly.
func (s *Store) SeedPayment(p rental.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.RentalID] = append(s.payments[p.RentalID], p)
}

// OpenRentals counts open rentals on a unit.
func (s *Store) OpenRentals(inventoryID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rentals {
		if r.InventoryID == inventoryID && r.ReturnDate == nil {
			n++
		}
	}
	return n
}

func (s *Store) Payments(rentalID int64) []rental.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]rental.Payment(nil), s.payments[rentalID]...)
}

func (s *Store) Rental(id int64) (rental.Rental, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rentals[id]
	return r, ok
}

// The repository methods below assume the caller holds the transaction, or
// runs without concurrency.

func (s *Store) LockInventory(_ context.Context, inventoryID int64) error {
	if _, ok := s.Units[inventoryID]; !ok {
		return rental.ErrInventoryNotFound
	}
	return nil
}

func (s *Store) HasOpenRental(_ context.Context, inventoryID int64) (bool, error) {
	for _, r := range s.rentals {
		if r.InventoryID == inventoryID && r.ReturnDate == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Create(_ context.Context, r *rental.Rental) error {
	if _, ok := s.Customers[r.CustomerID]; !ok {
		return errForeignKey
	}
	if _, ok := s.Staff[r.StaffID]; !ok {
		return errForeignKey
	}
	s.nextID++
	r.ID = s.nextID
	s.rentals[r.ID] = *r
	return nil
}

func (s *Store) LockByID(_ context.Context, id int64) (*rental.Rental, error) {
	r, ok := s.rentals[id]
	if !ok {
		return nil, rental.ErrRentalNotFound
	}
	return &r, nil
}

func (s *Store) MarkReturned(_ context.Context, id int64, at time.Time) error {
	r, ok := s.rentals[id]
	if !ok {
		return rental.ErrRentalNotFound
	}
	r.ReturnDate = &at
	r.LastUpdate = at
	s.rentals[id] = r
	return nil
}

func (s *Store) RentalRate(_ context.Context, inventoryID int64) (money.Amount, error) {
	u, ok := s.Units[inventoryID]
	if !ok {
		return 0, rental.ErrInventoryNotFound
	}
	return u.RentalRate, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	if err := s.FailDelete; err != nil {
		s.FailDelete = nil
		return err
	}
	if _, ok := s.rentals[id]; !ok {
		return rental.ErrRentalNotFound
	}
	delete(s.rentals, id)
	return nil
}

func (s *Store) detail(r rental.Rental) rental.Detail {
	u := s.Units[r.InventoryID]
	c := s.Customers[r.CustomerID]
	st := s.Staff[r.StaffID]
	return rental.Detail{
		RentalID:      r.ID,
		RentalDate:    r.RentalDate,
		ReturnDate:    r.ReturnDate,
		InventoryID:   r.InventoryID,
		CustomerID:    r.CustomerID,
		CustomerName:  c.Name,
		CustomerEmail: c.Email,
		FilmID:        u.FilmID,
		FilmTitle:     u.FilmTitle,
		RentalRate:    u.RentalRate,
		StaffID:       r.StaffID,
		StaffName:     st.Name,
	}
}

func (s *Store) FindDetail(_ context.Context, id int64) (*rental.Detail, error) {
	r, ok := s.rentals[id]
	if !ok {
		return nil, rental.ErrRentalNotFound
	}
	d := s.detail(r)
	return &d, nil
}

// newestFirst orders by rental date, then id, descending.
func (s *Store) newestFirst(keep func(rental.Rental) bool) []rental.Rental {
	var out []rental.Rental
	for _, r := range s.rentals {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RentalDate.Equal(out[j].RentalDate) {
			return out[i].RentalDate.After(out[j].RentalDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) List(_ context.Context, f rental.ListFilter) ([]rental.Summary, int64, error) {
	all := s.newestFirst(func(r rental.Rental) bool {
		return f.Status == "" || r.Status() == f.Status
	})
	total := int64(len(all))
	if f.Offset >= len(all) {
		return []rental.Summary{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}

	out := make([]rental.Summary, 0, end-f.Offset)
	for _, r := range all[f.Offset:end] {
		d := s.detail(r)
		out = append(out, rental.Summary{
			RentalID:     r.ID,
			RentalDate:   r.RentalDate,
			ReturnDate:   r.ReturnDate,
			CustomerID:   r.CustomerID,
			CustomerName: d.CustomerName,
			FilmID:       d.FilmID,
			FilmTitle:    d.FilmTitle,
			StaffID:      r.StaffID,
			StaffName:    d.StaffName,
		})
	}
	return out, total, nil
}

func (s *Store) ListByCustomer(_ context.Context, customerID int64) ([]rental.CustomerRental, error) {
	rows := s.newestFirst(func(r rental.Rental) bool { return r.CustomerID == customerID })
	out := make([]rental.CustomerRental, 0, len(rows))
	for _, r := range rows {
		d := s.detail(r)
		out = append(out, rental.CustomerRental{
			RentalID:   r.ID,
			RentalDate: r.RentalDate,
			ReturnDate: r.ReturnDate,
			FilmTitle:  d.FilmTitle,
			RentalRate: d.RentalRate,
			StaffName:  d.StaffName,
		})
	}
	return out, nil
}

// PaymentRepository shares the store's state and transaction.
func (s *Store) PaymentRepository() rental.PaymentRepository {
	return paymentRepo{s}
}

type paymentRepo struct {
	s *Store
}

func (p paymentRepo) ExistsForRental(_ context.Context, rentalID int64) (bool, error) {
	return len(p.s.payments[rentalID]) > 0, nil
}

// Create mimics ON CONFLICT DO NOTHING on the one-payment-per-rental guard.
func (p paymentRepo) Create(_ context.Context, pay *rental.Payment) (bool, error) {
	if len(p.s.payments[pay.RentalID]) > 0 {
		return false, nil
	}
	p.s.nextPay++
	pay.ID = p.s.nextPay
	p.s.payments[pay.RentalID] = append(p.s.payments[pay.RentalID], *pay)
	return true, nil
}

func (p paymentRepo) DeleteByRental(_ context.Context, rentalID int64) (int64, error) {
	n := int64(len(p.s.payments[rentalID]))
	delete(p.s.payments, rentalID)
	return n, nil
}

// Events records published events and can be told to fail.
type Events struct {
	mu        sync.Mutex
	Published []rental.Event
	Err       error
}

func (e *Events) Publish(_ context.Context, ev rental.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Published = append(e.Published, ev)
	return nil
}

func (e *Events) Types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.Published))
	for i, ev := range e.Published {
		out[i] = ev.Type
	}
	return out
}
