package rental

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/internal/testutil/memstore"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

var t0 = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store    *memstore.Store
	events   *memstore.Events
	create   *CreateRentalUseCase
	ret      *ReturnRentalUseCase
	cancel   *CancelRentalUseCase
	query    *QueryRentalsUseCase
	clockNow time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	store.Units[10] = memstore.Unit{FilmID: 2, FilmTitle: "ACE GOLDFINGER", RentalRate: 499}
	store.Units[11] = memstore.Unit{FilmID: 3, FilmTitle: "ADAPTATION HOLES", RentalRate: 299}
	store.Customers[1] = memstore.Person{Name: "MARY SMITH", Email: "mary.smith@sakilacustomer.org"}
	store.Staff[1] = memstore.Person{Name: "Mike Hillyer"}

	f := &fixture{store: store, events: &memstore.Events{}, clockNow: t0}
	clock := func() time.Time { return f.clockNow }
	payments := store.PaymentRepository()
	f.create = NewCreateRentalUseCase(store, store, f.events, clock)
	f.ret = NewReturnRentalUseCase(store, payments, store, f.events, clock)
	f.cancel = NewCancelRentalUseCase(store, payments, store, f.events, clock)
	f.query = NewQueryRentalsUseCase(store)
	return f
}

func (f *fixture) rent(t *testing.T, inventoryID int64) *rental.Detail {
	t.Helper()
	d, err := f.create.Execute(context.Background(), CreateRentalRequest{CustomerID: 1, InventoryID: inventoryID, StaffID: 1})
	require.NoError(t, err)
	return d
}

func TestCreateRental(t *testing.T) {
	f := newFixture(t)

	d := f.rent(t, 10)

	assert.Equal(t, t0, d.RentalDate)
	assert.Nil(t, d.ReturnDate)
	assert.Equal(t, "MARY SMITH", d.CustomerName)
	assert.Equal(t, "ACE GOLDFINGER", d.FilmTitle)
	assert.Equal(t, 1, f.store.OpenRentals(10))
	assert.Equal(t, []string{rental.EventCreated}, f.events.Types())
	assert.Equal(t, d.RentalID, f.events.Published[0].RentalID)
}

func TestCreateRental_MissingFieldsRunsNothing(t *testing.T) {
	f := newFixture(t)

	for _, req := range []CreateRentalRequest{
		{InventoryID: 10, StaffID: 1},
		{CustomerID: 1, StaffID: 1},
		{CustomerID: 1, InventoryID: 10, StaffID: -1},
	} {
		_, err := f.create.Execute(context.Background(), req)
		assert.ErrorIs(t, err, rental.ErrMissingFields)
	}
	assert.Zero(t, f.store.Transactions)
	assert.Empty(t, f.events.Types())
}

func TestCreateRental_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.create.Execute(ctx, CreateRentalRequest{CustomerID: 1, InventoryID: 999999, StaffID: 1})
	assert.Equal(t, apperrors.KindConstraint, apperrors.KindOf(err))

	_, err = f.create.Execute(ctx, CreateRentalRequest{CustomerID: 999999, InventoryID: 10, StaffID: 1})
	assert.Equal(t, apperrors.KindConstraint, apperrors.KindOf(err))
	assert.Zero(t, f.store.OpenRentals(10))
}

func TestCreateRental_UnitAlreadyRented(t *testing.T) {
	f := newFixture(t)
	f.rent(t, 10)

	_, err := f.create.Execute(context.Background(), CreateRentalRequest{CustomerID: 1, InventoryID: 10, StaffID: 1})
	assert.ErrorIs(t, err, rental.ErrUnitAlreadyRented)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, 1, f.store.OpenRentals(10))
}

func TestCreateRental_ConcurrentCheckoutsOfOneUnit(t *testing.T) {
	f := newFixture(t)
	const callers = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.create.Execute(context.Background(), CreateRentalRequest{CustomerID: 1, InventoryID: 10, StaffID: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, rental.ErrUnitAlreadyRented):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, conflicts)
	assert.Equal(t, 1, f.store.OpenRentals(10))
}

func TestReturnRental_BillsOnce(t *testing.T) {
	f := newFixture(t)
	d := f.rent(t, 10)

	f.clockNow = t0.Add(72 * time.Hour)
	res, err := f.ret.Execute(context.Background(), d.RentalID)
	require.NoError(t, err)

	assert.Equal(t, f.clockNow, res.ReturnDate)
	require.NotNil(t, res.Payment)
	assert.Equal(t, money.Amount(499), res.Payment.Amount)
	assert.Equal(t, f.clockNow, res.Payment.PaymentDate)
	assert.Equal(t, int64(1), res.Payment.CustomerID)
	assert.Len(t, f.store.Payments(d.RentalID), 1)
	assert.Zero(t, f.store.OpenRentals(10))

	last := f.events.Published[len(f.events.Published)-1]
	assert.Equal(t, rental.EventReturned, last.Type)
	require.NotNil(t, last.Amount)
	assert.Equal(t, "4.99", last.Amount.String())
}

func TestReturnRental_AlreadyReturned(t *testing.T) {
	f := newFixture(t)
	d := f.rent(t, 10)
	returnedAt := t0.Add(time.Hour)
	f.clockNow = returnedAt
	_, err := f.ret.Execute(context.Background(), d.RentalID)
	require.NoError(t, err)

	f.clockNow = t0.Add(2 * time.Hour)
	_, err = f.ret.Execute(context.Background(), d.RentalID)
	require.ErrorIs(t, err, rental.ErrAlreadyReturned)
	assert.Equal(t, returnedAt, apperrors.GetAppError(err).Details["return_date"])

	r, ok := f.store.Rental(d.RentalID)
	require.True(t, ok)
	assert.Equal(t, returnedAt, *r.ReturnDate)
	assert.Len(t, f.store.Payments(d.RentalID), 1)
}

func TestReturnRental_ExistingPaymentIsKept(t *testing.T) {
	f := newFixture(t)
	d := f.rent(t, 11)
	f.store.SeedPayment(rental.Payment{ID: 1, RentalID: d.RentalID, CustomerID: 1, StaffID: 1, Amount: 100, PaymentDate: t0})

	res, err := f.ret.Execute(context.Background(), d.RentalID)
	require.NoError(t, err)
	assert.Nil(t, res.Payment)
	assert.Len(t, f.store.Payments(d.RentalID), 1)
	assert.Equal(t, money.Amount(100), f.store.Payments(d.RentalID)[0].Amount)
}

func TestReturnRental_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.ret.Execute(context.Background(), 404)
	assert.ErrorIs(t, err, rental.ErrRentalNotFound)
}

func TestCancelRental_ReturnedRentalDropsPayment(t *testing.T) {
	f := newFixture(t)
	d := f.rent(t, 10)
	_, err := f.ret.Execute(context.Background(), d.RentalID)
	require.NoError(t, err)

	f.clockNow = t0.Add(time.Minute)
	res, err := f.cancel.Execute(context.Background(), d.RentalID)
	require.NoError(t, err)
	assert.Equal(t, d.RentalID, res.RentalID)
	assert.Equal(t, f.clockNow, res.CancelledAt)

	_, ok := f.store.Rental(d.RentalID)
	assert.False(t, ok)
	assert.Empty(t, f.store.Payments(d.RentalID))
	assert.Equal(t, []string{rental.EventCreated, rental.EventReturned, rental.EventCancelled}, f.events.Types())

	_, err = f.query.Get(context.Background(), d.RentalID)
	assert.ErrorIs(t, err, rental.ErrRentalNotFound)
}

func TestCancelRental_RollsBackPaymentsOnFailure(t *testing.T) {
	f := newFixture(t)
	d := f.rent(t, 10)
	_, err := f.ret.Execute(context.Background(), d.RentalID)
	require.NoError(t, err)

	f.store.FailDelete = apperrors.Connection(errors.New("connection reset"), "delete rental")
	_, err = f.cancel.Execute(context.Background(), d.RentalID)
	assert.Equal(t, apperrors.KindConnection, apperrors.KindOf(err))

	_, ok := f.store.Rental(d.RentalID)
	assert.True(t, ok)
	assert.Len(t, f.store.Payments(d.RentalID), 1)
	assert.NotContains(t, f.events.Types(), rental.EventCancelled)
}

func TestPublishFailureKeepsOutcome(t *testing.T) {
	f := newFixture(t)
	f.events.Err = errors.New("breaker open")

	d := f.rent(t, 10)
	assert.Equal(t, 1, f.store.OpenRentals(10))

	_, err := f.ret.Execute(context.Background(), d.RentalID)
	assert.NoError(t, err)
}

func TestQueryRentals_List(t *testing.T) {
	f := newFixture(t)
	first := f.rent(t, 10)
	f.clockNow = t0.Add(time.Hour)
	second := f.rent(t, 11)
	_, err := f.ret.Execute(context.Background(), first.RentalID)
	require.NoError(t, err)

	page, pr, err := f.query.List(context.Background(), ListRentalsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, pr.Page)
	assert.Equal(t, 20, pr.Limit)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, second.RentalID, page.Items[0].RentalID)

	page, _, err = f.query.List(context.Background(), ListRentalsRequest{Status: "active"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.RentalID, page.Items[0].RentalID)

	_, _, err = f.query.List(context.Background(), ListRentalsRequest{Status: "lost"})
	assert.ErrorIs(t, err, rental.ErrInvalidStatus)
}

func TestQueryRentals_ByCustomer(t *testing.T) {
	f := newFixture(t)
	f.rent(t, 10)
	f.clockNow = t0.Add(time.Hour)
	f.rent(t, 11)

	rows, err := f.query.ByCustomer(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ADAPTATION HOLES", rows[0].FilmTitle)
	assert.Equal(t, "Activa", rows[0].Status().Label())

	rows, err = f.query.ByCustomer(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", outcome(nil))
	assert.Equal(t, "conflict", outcome(rental.ErrUnitAlreadyRented))
	assert.Equal(t, "not_found", outcome(rental.ErrRentalNotFound))
	assert.Equal(t, "invalid", outcome(rental.ErrMissingFields))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}
