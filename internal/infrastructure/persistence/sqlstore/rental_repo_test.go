package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

func TestRentalRepository_LockInventory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("locked", func(t *testing.T) {
		mock.ExpectQuery("(?s)SELECT \\* FROM `inventory` WHERE inventory_id = \\?.*FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"inventory_id", "film_id", "store_id"}).AddRow(10, 1, 1))
		assert.NoError(t, repo.LockInventory(ctx, 10))
	})

	t.Run("missing unit", func(t *testing.T) {
		mock.ExpectQuery("(?s)FROM `inventory`.*FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"inventory_id"}))
		err := repo.LockInventory(ctx, 999999)
		assert.ErrorIs(t, err, rental.ErrInventoryNotFound)
		assert.Equal(t, apperrors.KindConstraint, apperrors.KindOf(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_HasOpenRental(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)

	mock.ExpectQuery("(?s)SELECT count\\(\\*\\) FROM `rental` WHERE inventory_id = \\? AND return_date IS NULL").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	open, err := repo.HasOpenRental(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, open)
}

func TestRentalRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("assigns id", func(t *testing.T) {
		r, err := rental.New(1, 10, 1, fixedNow)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO `rental`").WillReturnResult(sqlmock.NewResult(16050, 1))
		require.NoError(t, repo.Create(ctx, r))
		assert.Equal(t, int64(16050), r.ID)
	})

	t.Run("open rental guard", func(t *testing.T) {
		r, err := rental.New(1, 10, 1, fixedNow)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO `rental`").WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		err = repo.Create(ctx, r)
		assert.ErrorIs(t, err, rental.ErrUnitAlreadyRented)
	})

	t.Run("unknown customer", func(t *testing.T) {
		r, err := rental.New(999999, 10, 1, fixedNow)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO `rental`").WillReturnError(&gomysql.MySQLError{Number: 1452, Message: "foreign key"})
		err = repo.Create(ctx, r)
		assert.Equal(t, apperrors.KindConstraint, apperrors.KindOf(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_LockByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	returned := fixedNow.Add(-time.Hour)
	mock.ExpectQuery("(?s)SELECT \\* FROM `rental` WHERE rental_id = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"rental_id", "rental_date", "inventory_id", "customer_id", "return_date", "staff_id", "last_update"}).
			AddRow(5, fixedNow.Add(-72*time.Hour), 10, 1, returned, 2, returned))

	r, err := repo.LockByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.ID)
	assert.False(t, r.IsOpen())

	mock.ExpectQuery("(?s)FROM `rental`.*FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"rental_id"}))
	_, err = repo.LockByID(ctx, 404)
	assert.ErrorIs(t, err, rental.ErrRentalNotFound)
}

func TestRentalRepository_MarkReturnedMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)

	mock.ExpectExec("UPDATE `rental` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.MarkReturned(context.Background(), 404, fixedNow)
	assert.ErrorIs(t, err, rental.ErrRentalNotFound)
}

func TestRentalRepository_RentalRate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)

	mock.ExpectQuery("(?s)SELECT f.rental_rate FROM film f JOIN inventory i").
		WillReturnRows(sqlmock.NewRows([]string{"rental_rate"}).AddRow("4.99"))

	rate, err := repo.RentalRate(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(499), rate)
}

func TestRentalRepository_FindDetail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	cols := []string{
		"rental_id", "rental_date", "return_date", "inventory_id",
		"customer_id", "customer_first_name", "customer_last_name", "customer_email",
		"film_id", "film_title", "film_description", "rental_rate",
		"staff_id", "staff_first_name", "staff_last_name",
	}
	mock.ExpectQuery("(?s)FROM rental r JOIN customer c .* WHERE r.rental_id = \\?").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			16050, fixedNow, nil, 10,
			1, "MARY", "SMITH", "mary.smith@sakilacustomer.org",
			1, "ACADEMY DINOSAUR", "An epic drama", "0.99",
			1, "Mike", "Hillyer",
		))

	d, err := repo.FindDetail(ctx, 16050)
	require.NoError(t, err)
	assert.Equal(t, "MARY SMITH", d.CustomerName)
	assert.Equal(t, "Mike Hillyer", d.StaffName)
	assert.Equal(t, money.Amount(99), d.RentalRate)
	assert.Nil(t, d.ReturnDate)

	mock.ExpectQuery("(?s)FROM rental r JOIN customer c").WillReturnRows(sqlmock.NewRows(cols))
	_, err = repo.FindDetail(ctx, 404)
	assert.ErrorIs(t, err, rental.ErrRentalNotFound)
}

func TestRentalRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)

	mock.ExpectQuery("(?s)SELECT count\\(\\*\\) FROM rental r WHERE r.return_date IS NULL").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(183))
	mock.ExpectQuery("(?s)FROM rental r JOIN customer c .* WHERE r.return_date IS NULL ORDER BY r.rental_date DESC").
		WillReturnRows(sqlmock.NewRows([]string{
			"rental_id", "rental_date", "return_date", "customer_id", "customer_first_name", "customer_last_name",
			"film_id", "film_title", "staff_id", "staff_first_name", "staff_last_name",
		}).AddRow(16050, fixedNow, nil, 1, "MARY", "SMITH", 1, "ACADEMY DINOSAUR", 1, "Mike", "Hillyer"))

	items, total, err := repo.List(context.Background(), rental.ListFilter{Status: rental.StatusActive, Offset: 0, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(183), total)
	require.Len(t, items, 1)
	assert.Equal(t, rental.StatusActive, items[0].Status())
	assert.Equal(t, "MARY SMITH", items[0].CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	t.Run("inserted", func(t *testing.T) {
		p := &rental.Payment{CustomerID: 1, StaffID: 1, RentalID: 16050, Amount: 499, PaymentDate: fixedNow}
		mock.ExpectExec("INSERT INTO `payment`.*ON DUPLICATE KEY UPDATE").WillReturnResult(sqlmock.NewResult(32099, 1))

		created, err := repo.Create(ctx, p)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(32099), p.ID)
	})

	t.Run("already paid", func(t *testing.T) {
		p := &rental.Payment{CustomerID: 1, StaffID: 1, RentalID: 16050, Amount: 499, PaymentDate: fixedNow}
		mock.ExpectExec("INSERT INTO `payment`").WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.Create(ctx, p)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Zero(t, p.ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
