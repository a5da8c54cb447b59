package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/internal/domain/report"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type mockReports struct {
	mock.Mock
}

func (m *mockReports) CustomerInfo(ctx context.Context, id int64) (*report.CustomerInfo, error) {
	args := m.Called(ctx, id)
	info, _ := args.Get(0).(*report.CustomerInfo)
	return info, args.Error(1)
}

func (m *mockReports) CustomerRentals(ctx context.Context, f report.CustomerRentalsFilter) ([]report.CustomerRentalRow, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]report.CustomerRentalRow), args.Error(1)
}

func (m *mockReports) CustomerStats(ctx context.Context, id int64) (report.CustomerStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(report.CustomerStats), args.Error(1)
}

func (m *mockReports) OpenRentals(ctx context.Context, cutoff *time.Time) ([]report.OverdueRow, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]report.OverdueRow), args.Error(1)
}

func (m *mockReports) OpenRentalDates(ctx context.Context) ([]time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockReports) TopFilms(ctx context.Context, f report.TopFilmsFilter, at time.Time) ([]report.TopFilm, error) {
	args := m.Called(ctx, f, at)
	return args.Get(0).([]report.TopFilm), args.Error(1)
}

func (m *mockReports) RentalTotals(ctx context.Context) (report.TopFilmsStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.TopFilmsStats), args.Error(1)
}

func (m *mockReports) StaffEarnings(ctx context.Context, f report.EarningsFilter) ([]report.StaffEarning, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]report.StaffEarning), args.Error(1)
}

func (m *mockReports) Counts(ctx context.Context) (report.Counts, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.Counts), args.Error(1)
}

func (m *mockReports) TopCategories(ctx context.Context, limit int) ([]report.CategoryRentals, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.CategoryRentals), args.Error(1)
}

func (m *mockReports) RecentRentals(ctx context.Context, limit int) ([]report.RecentRental, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.RecentRental), args.Error(1)
}

func newUseCase(repo *mockReports) *ReportsUseCase {
	return NewReportsUseCase(repo, func() time.Time { return now })
}

func TestCustomerRentals(t *testing.T) {
	repo := new(mockReports)
	returned := now.Add(-24 * time.Hour)
	repo.On("CustomerInfo", mock.Anything, int64(1)).Return(&report.CustomerInfo{ID: 1, Name: "MARY SMITH", Active: true}, nil)
	repo.On("CustomerRentals", mock.Anything, report.CustomerRentalsFilter{CustomerID: 1, Order: report.SortDesc}).
		Return([]report.CustomerRentalRow{
			{RentalID: 2, RentalDate: now.Add(-50 * time.Hour)},
			{RentalID: 1, RentalDate: now.Add(-5 * 24 * time.Hour), ReturnDate: &returned},
		}, nil)
	repo.On("CustomerStats", mock.Anything, int64(1)).
		Return(report.CustomerStats{TotalRentals: 2, ActiveRentals: 1, ReturnedRentals: 1, TotalSpent: 499}, nil)

	got, err := newUseCase(repo).CustomerRentals(context.Background(), CustomerRentalsRequest{CustomerID: 1, Sort: "newest"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rentals[0].RentalDays)
	assert.Equal(t, 4, got.Rentals[1].RentalDays)
	assert.Equal(t, money.Amount(499), got.Statistics.TotalSpent)
}

func TestCustomerRentals_Errors(t *testing.T) {
	repo := new(mockReports)
	repo.On("CustomerInfo", mock.Anything, int64(404)).Return(nil, customer.ErrCustomerNotFound)
	uc := newUseCase(repo)

	_, err := uc.CustomerRentals(context.Background(), CustomerRentalsRequest{CustomerID: 404})
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)

	_, err = uc.CustomerRentals(context.Background(), CustomerRentalsRequest{CustomerID: 1, Status: "late"})
	assert.ErrorIs(t, err, rental.ErrInvalidStatus)
}

func TestOverdue(t *testing.T) {
	repo := new(mockReports)
	cutoff := now.Add(-5 * 24 * time.Hour)
	repo.On("OpenRentals", mock.Anything, &cutoff).Return([]report.OverdueRow{
		{RentalID: 1, RentalDate: now.Add(-6 * 24 * time.Hour), CustomerName: "ZED"},
		{RentalID: 2, RentalDate: now.Add(-9 * 24 * time.Hour), CustomerName: "AMY"},
	}, nil)
	repo.On("OpenRentalDates", mock.Anything).Return([]time.Time{
		now.Add(-6 * 24 * time.Hour), now.Add(-9 * 24 * time.Hour), now.Add(-time.Hour),
	}, nil)

	got, err := newUseCase(repo).Overdue(context.Background(), OverdueRequest{DaysOverdue: "5"})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, int64(2), got.Rows[0].RentalID)
	assert.Equal(t, 9, got.Rows[0].DaysOverdue)
	assert.Equal(t, report.UrgencyOverdue, got.Rows[0].Urgency)
	assert.Equal(t, report.UrgencyNearDue, got.Rows[1].Urgency)

	assert.Equal(t, report.OverdueStats{TotalUnreturned: 3, Overdue: 1, NearOverdue: 1, OnTime: 1, AvgDaysOut: 5}, got.Statistics)
}

func TestOverdue_InvalidDays(t *testing.T) {
	_, err := newUseCase(new(mockReports)).Overdue(context.Background(), OverdueRequest{DaysOverdue: "1; DROP TABLE rental"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestTopFilms(t *testing.T) {
	repo := new(mockReports)
	repo.On("TopFilms", mock.Anything, report.TopFilmsFilter{Limit: 5, Category: "Sports", MinRentals: 30}, now).
		Return([]report.TopFilm{{FilmID: 103, TotalRentals: 34, AvgRentalDays: 5.1234}}, nil)
	repo.On("RentalTotals", mock.Anything).
		Return(report.TopFilmsStats{TotalFilms: 1000, TotalRentals: 16044, TotalSystemRevenue: 6741651}, nil)

	got, err := newUseCase(repo).TopFilms(context.Background(), TopFilmsRequest{Limit: "5", Category: "Sports", MinRentals: "30"})
	require.NoError(t, err)
	assert.Equal(t, 5.12, got.Films[0].AvgRentalDays)
	assert.Equal(t, 16.04, got.Statistics.AvgRentalsPerFilm)
}

func TestTopFilms_Defaults(t *testing.T) {
	repo := new(mockReports)
	repo.On("TopFilms", mock.Anything, report.TopFilmsFilter{Limit: report.DefaultTopFilmsLimit}, now).Return([]report.TopFilm{}, nil)
	repo.On("RentalTotals", mock.Anything).Return(report.TopFilmsStats{}, nil)

	got, err := newUseCase(repo).TopFilms(context.Background(), TopFilmsRequest{})
	require.NoError(t, err)
	assert.Empty(t, got.Films)
	assert.Zero(t, got.Statistics.AvgRentalsPerFilm)

	_, err = newUseCase(repo).TopFilms(context.Background(), TopFilmsRequest{Limit: "0"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestStaffEarnings(t *testing.T) {
	repo := new(mockReports)
	from := time.Date(2005, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.On("StaffEarnings", mock.Anything, report.EarningsFilter{From: &from, To: &to}).
		Return([]report.StaffEarning{
			{StaffID: 1, TotalEarnings: 300, TotalRentalsProcessed: 3},
			{StaffID: 2, TotalEarnings: 100},
		}, nil)

	got, err := newUseCase(repo).StaffEarnings(context.Background(), StaffEarningsRequest{StartDate: "2005-05-01", EndDate: "2005-05-31"})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(100), got.Staff[0].EarningsPerRental)
	assert.Zero(t, got.Staff[1].EarningsPerRental)
	assert.Equal(t, money.Amount(400), got.Statistics.TotalSystemEarnings)
	assert.Equal(t, money.Amount(100), got.Statistics.LowestEarnings)
	assert.Equal(t, report.EarningsEcho{StartDate: "2005-05-01", EndDate: "2005-05-31", StoreID: "all"}, got.Filters)
}

func TestStaffEarnings_InvalidInput(t *testing.T) {
	uc := newUseCase(new(mockReports))

	_, err := uc.StaffEarnings(context.Background(), StaffEarningsRequest{StartDate: "05/01/2005"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = uc.StaffEarnings(context.Background(), StaffEarningsRequest{StoreID: "one"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestSummary(t *testing.T) {
	repo := new(mockReports)
	repo.On("Counts", mock.Anything).Return(report.Counts{ActiveCustomers: 584, TotalRentals: 16044}, nil)
	repo.On("TopCategories", mock.Anything, report.TopCategoriesLimit).
		Return([]report.CategoryRentals{{Category: "Sports", Rentals: 1179}}, nil)
	repo.On("RecentRentals", mock.Anything, report.RecentActivityLimit).
		Return([]report.RecentRental{{RentalDate: now, FilmTitle: "ACADEMY DINOSAUR"}}, nil)

	got, err := newUseCase(repo).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(584), got.Counts.ActiveCustomers)
	require.Len(t, got.RecentActivity, 1)
	assert.Equal(t, "rental", got.RecentActivity[0].Type)
	assert.Equal(t, "Nueva renta: ACADEMY DINOSAUR", got.RecentActivity[0].Description)
}
