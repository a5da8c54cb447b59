package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/report"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
)

func TestReportRepository_CustomerInfoMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery("(?s)FROM customer cu WHERE cu.customer_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}))

	_, err := repo.CustomerInfo(context.Background(), 404)
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestReportRepository_CustomerRentals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	paid := fixedNow.Add(-24 * time.Hour)
	mock.ExpectQuery("(?s)FROM rental r JOIN inventory i .* WHERE r.customer_id = \\? AND r.return_date IS NOT NULL ORDER BY r.rental_date ASC").
		WillReturnRows(sqlmock.NewRows([]string{
			"rental_id", "rental_date", "return_date", "film_id", "film_title", "rental_rate", "category",
			"staff_first_name", "staff_last_name", "store_id", "payment_amount", "payment_date",
		}).
			AddRow(76, fixedNow.Add(-72*time.Hour), paid, 663, "PATIENT SISTER", "0.99", "Classics", "Mike", "Hillyer", 1, "2.99", paid).
			AddRow(573, fixedNow.Add(-48*time.Hour), paid, 875, "TALENTED HOMICIDE", "0.99", "Sports", "Jon", "Stephens", 2, nil, nil))

	rows, err := repo.CustomerRentals(context.Background(), report.CustomerRentalsFilter{
		CustomerID: 1, Status: rental.StatusReturned, Order: report.SortAsc,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].PaymentAmount)
	assert.Equal(t, money.Amount(299), *rows[0].PaymentAmount)
	assert.Nil(t, rows[1].PaymentAmount)
	assert.Equal(t, "Jon Stephens", rows[1].StaffName)
}

func TestReportRepository_OpenRentalsCutoff(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	cutoff := fixedNow.Add(-7 * 24 * time.Hour)
	mock.ExpectQuery("(?s)WHERE r.return_date IS NULL AND r.rental_date <= \\?").
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{
			"rental_id", "rental_date", "customer_id", "customer_first_name", "customer_last_name",
			"customer_email", "customer_phone", "address", "city", "country",
			"film_id", "film_title", "rental_rate", "category", "staff_first_name", "staff_last_name", "store_id",
		}).AddRow(11496, fixedNow.Add(-10*24*time.Hour), 155, "GAIL", "KNIGHT", "gail.knight@sakilacustomer.org",
			"831112349", "1331 Usak Boulevard", "Lausanne", "Switzerland",
			274, "GRAFFITI LOVE", "0.99", "Classics", "Jon", "Stephens", 2))

	rows, err := repo.OpenRentals(context.Background(), &cutoff)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GAIL KNIGHT", rows[0].CustomerName)
	assert.Equal(t, "1331 Usak Boulevard, Lausanne, Switzerland", rows[0].CustomerAddress)
}

func TestReportRepository_TopFilmsBindsFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery("(?s)TIMESTAMPDIFF\\(DAY, r.rental_date, COALESCE\\(r.return_date, \\?\\)\\).* WHERE c.name = \\? .* HAVING COUNT\\(r.rental_id\\) >= \\? ORDER BY total_rentals DESC, total_revenue DESC").
		WithArgs(fixedNow, "Sports", 30, 5).
		WillReturnRows(sqlmock.NewRows([]string{
			"film_id", "title", "description", "release_year", "rental_rate", "duration_minutes", "rating", "category",
			"total_rentals", "currently_rented", "returned_rentals", "total_revenue", "avg_rental_days", "unique_customers",
		}).AddRow(103, "BUCKET BROTHERHOOD", "A Amazing Display", 2006, "4.99", 133, "PG", "Sports",
			34, 1, 33, "180.66", 5.12, 33))

	films, err := repo.TopFilms(context.Background(), report.TopFilmsFilter{Limit: 5, Category: "Sports", MinRentals: 30}, fixedNow)
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, int64(34), films[0].TotalRentals)
	assert.Equal(t, money.Amount(18066), films[0].TotalRevenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_StaffEarningsRange(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	from := time.Date(2005, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC)
	store := int64(1)

	mock.ExpectQuery("(?s)LEFT JOIN \\(SELECT staff_id.* FROM `?rental`? WHERE rental_date >= \\? AND rental_date < \\? GROUP BY staff_id\\) rs.* WHERE s.store_id = \\?").
		WithArgs(from, to, from, to, store).
		WillReturnRows(sqlmock.NewRows([]string{
			"staff_id", "first_name", "last_name", "staff_email", "active", "store_id", "address", "city", "country",
			"total_rentals_processed", "unique_customers_served", "active_rentals", "completed_rentals",
			"total_earnings", "avg_payment", "first_transaction", "last_transaction",
		}).AddRow(1, "Mike", "Hillyer", "Mike.Hillyer@sakilastaff.com", true, 1, "47 MySakila Drive", "Lethbridge", "Canada",
			575, 430, 0, 575, "2621.83", "4.56", from, to.Add(-time.Hour)))

	rows, err := repo.StaffEarnings(context.Background(), report.EarningsFilter{From: &from, To: &to, StoreID: &store})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "47 MySakila Drive, Lethbridge, Canada", rows[0].StoreLocation)
	assert.Equal(t, money.Amount(262183), rows[0].TotalEarnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_Counts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery("(?s)SELECT .* AS active_customers").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{
			"active_customers", "total_films", "total_inventory", "active_rentals", "completed_rentals",
			"total_rentals", "total_revenue", "active_staff", "total_stores",
		}).AddRow(584, 1000, 4581, 183, 15861, 16044, "67416.51", 2, 2))

	counts, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(584), counts.ActiveCustomers)
	assert.Equal(t, money.Amount(6741651), counts.TotalRevenue)
	assert.Equal(t, int64(2), counts.TotalStores)
}
