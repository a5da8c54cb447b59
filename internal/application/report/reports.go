// Package report assembles the read-only reports. Aggregation that depends on
// "now" happens here so every dialect reports the same figures.
package report

import (
	"context"
	"strconv"
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/paging"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
	"github.com/xiebiao/dvdrental/internal/domain/report"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
	"github.com/xiebiao/dvdrental/pkg/tracing"
)

const tracerName = "report"

type ReportsUseCase struct {
	reports report.Repository
	now     func() time.Time
}

func NewReportsUseCase(reports report.Repository, now func() time.Time) *ReportsUseCase {
	return &ReportsUseCase{reports: reports, now: now}
}

type CustomerRentalsRequest struct {
	CustomerID int64
	Status     string
	Sort       string
}

func (uc *ReportsUseCase) CustomerRentals(ctx context.Context, req CustomerRentalsRequest) (_ *report.CustomerRentals, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CustomerRentals")
	defer func() { tracing.End(span, err) }()

	status, err := rental.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	info, err := uc.reports.CustomerInfo(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reports.CustomerRentals(ctx, report.CustomerRentalsFilter{
		CustomerID: req.CustomerID,
		Status:     status,
		Order:      report.ParseSortOrder(req.Sort),
	})
	if err != nil {
		return nil, err
	}
	stats, err := uc.reports.CustomerStats(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	for i := range rows {
		rows[i].RentalDays = report.RentalDays(rows[i].RentalDate, rows[i].ReturnDate, now)
	}
	return &report.CustomerRentals{Customer: *info, Statistics: stats, Rentals: rows}, nil
}

type OverdueRequest struct {
	DaysOverdue string
	SortBy      string
}

// Overdue lists open rentals out for at least DaysOverdue days. Statistics
// always cover every open rental.
func (uc *ReportsUseCase) Overdue(ctx context.Context, req OverdueRequest) (_ *report.Overdue, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Overdue")
	defer func() { tracing.End(span, err) }()

	minDays, err := optionalInt("days_overdue", req.DaysOverdue, 0)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var cutoff *time.Time
	if minDays != nil {
		c := report.MinDaysCutoff(*minDays, now)
		cutoff = &c
	}

	rows, err := uc.reports.OpenRentals(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	dates, err := uc.reports.OpenRentalDates(ctx)
	if err != nil {
		return nil, err
	}

	report.AnnotateOverdue(rows, now)
	report.SortOverdue(rows, report.ParseOverdueSort(req.SortBy))
	return &report.Overdue{Statistics: report.SummarizeOverdue(dates, now), Rows: rows}, nil
}

type TopFilmsRequest struct {
	Limit      string
	Category   string
	MinRentals string
}

func (uc *ReportsUseCase) TopFilms(ctx context.Context, req TopFilmsRequest) (_ *report.TopFilms, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "TopFilms")
	defer func() { tracing.End(span, err) }()

	limit, err := optionalInt("limit", req.Limit, 1)
	if err != nil {
		return nil, err
	}
	minRentals, err := optionalInt("min_rentals", req.MinRentals, 0)
	if err != nil {
		return nil, err
	}

	filter := report.TopFilmsFilter{Limit: report.DefaultTopFilmsLimit, Category: req.Category}
	if limit != nil {
		filter.Limit = min(*limit, paging.MaxLimit)
	}
	if minRentals != nil {
		filter.MinRentals = *minRentals
	}

	films, err := uc.reports.TopFilms(ctx, filter, uc.now())
	if err != nil {
		return nil, err
	}
	report.RoundAvgRentalDays(films)
	totals, err := uc.reports.RentalTotals(ctx)
	if err != nil {
		return nil, err
	}
	return &report.TopFilms{Statistics: report.FinishTopFilmsStats(totals), Films: films}, nil
}

type StaffEarningsRequest struct {
	StartDate string
	EndDate   string
	StoreID   string
}

func (uc *ReportsUseCase) StaffEarnings(ctx context.Context, req StaffEarningsRequest) (_ *report.StaffEarnings, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "StaffEarnings")
	defer func() { tracing.End(span, err) }()

	from, to, err := report.ParseEarningsRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	filter := report.EarningsFilter{From: from, To: to}
	if req.StoreID != "" {
		id, err := strconv.ParseInt(req.StoreID, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperrors.Validation("store_id must be a positive integer, got %q", req.StoreID)
		}
		filter.StoreID = &id
	}

	staff, err := uc.reports.StaffEarnings(ctx, filter)
	if err != nil {
		return nil, err
	}
	report.FillEarningsPerRental(staff)
	return &report.StaffEarnings{
		Statistics: report.SummarizeEarnings(staff),
		Staff:      staff,
		Filters: report.EarningsEcho{
			StartDate: report.EchoOrAll(req.StartDate),
			EndDate:   report.EchoOrAll(req.EndDate),
			StoreID:   report.EchoOrAll(req.StoreID),
		},
	}, nil
}

func (uc *ReportsUseCase) Summary(ctx context.Context) (_ *report.Summary, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Summary")
	defer func() { tracing.End(span, err) }()

	counts, err := uc.reports.Counts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.reports.TopCategories(ctx, report.TopCategoriesLimit)
	if err != nil {
		return nil, err
	}
	recent, err := uc.reports.RecentRentals(ctx, report.RecentActivityLimit)
	if err != nil {
		return nil, err
	}

	activity := make([]report.Activity, len(recent))
	for i, r := range recent {
		activity[i] = report.NewRentalActivity(r)
	}
	return &report.Summary{Counts: counts, TopCategories: categories, RecentActivity: activity}, nil
}

// optionalInt parses an optional integer query value bounded below by floor.
func optionalInt(name, raw string, floor int) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < floor {
		return nil, apperrors.Validation("%s must be an integer >= %d, got %q", name, floor, raw)
	}
	return &n, nil
}
