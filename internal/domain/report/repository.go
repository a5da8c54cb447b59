package report

import (
	"context"
	"time"
)

// Repository runs the read-only aggregations behind the reports. Every
// aggregate over an empty set comes back as zero.
type Repository interface {
	// CustomerInfo returns customer.ErrCustomerNotFound when absent.
	CustomerInfo(ctx context.Context, customerID int64) (*CustomerInfo, error)
	CustomerRentals(ctx context.Context, filter CustomerRentalsFilter) ([]CustomerRentalRow, error)
	CustomerStats(ctx context.Context, customerID int64) (CustomerStats, error)

	// OpenRentals lists open rentals, limited to rental_date <= cutoff when set.
	OpenRentals(ctx context.Context, cutoff *time.Time) ([]OverdueRow, error)
	// OpenRentalDates returns the rental_date of every open rental.
	OpenRentalDates(ctx context.Context) ([]time.Time, error)

	// TopFilms ranks films; open rentals are measured up to now.
	TopFilms(ctx context.Context, filter TopFilmsFilter, now time.Time) ([]TopFilm, error)
	RentalTotals(ctx context.Context) (TopFilmsStats, error)

	StaffEarnings(ctx context.Context, filter EarningsFilter) ([]StaffEarning, error)

	Counts(ctx context.Context) (Counts, error)
	TopCategories(ctx context.Context, limit int) ([]CategoryRentals, error)
	RecentRentals(ctx context.Context, limit int) ([]RecentRental, error)
}
