package report

import (
	"sort"
	"strings"
	"time"

	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

// AnnotateOverdue fills DaysOverdue and Urgency relative to now.
func AnnotateOverdue(rows []OverdueRow, now time.Time) {
	for i := range rows {
		days := ElapsedDays(rows[i].RentalDate, now)
		rows[i].DaysOverdue = days
		rows[i].Urgency = UrgencyFor(days)
	}
}

// SortOverdue orders by days out descending, or by customer name ascending.
// Ties fall back to rental id so output is stable.
func SortOverdue(rows []OverdueRow, by OverdueSort) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if by == SortByCustomer {
			if an, bn := strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName); an != bn {
				return an < bn
			}
		} else if a.DaysOverdue != b.DaysOverdue {
			return a.DaysOverdue > b.DaysOverdue
		}
		return a.RentalID < b.RentalID
	})
}

// SummarizeOverdue counts every open rental per tier using the same
// thresholds as UrgencyFor.
func SummarizeOverdue(rentalDates []time.Time, now time.Time) OverdueStats {
	var stats OverdueStats
	if len(rentalDates) == 0 {
		return stats
	}
	var totalDays int
	for _, d := range rentalDates {
		days := ElapsedDays(d, now)
		totalDays += days
		switch UrgencyFor(days) {
		case UrgencyOverdue:
			stats.Overdue++
		case UrgencyNearDue:
			stats.NearOverdue++
		default:
			stats.OnTime++
		}
	}
	stats.TotalUnreturned = int64(len(rentalDates))
	stats.AvgDaysOut = round2(float64(totalDays) / float64(len(rentalDates)))
	return stats
}

// FinishTopFilmsStats derives the per-film average from the raw totals.
func FinishTopFilmsStats(stats TopFilmsStats) TopFilmsStats {
	if stats.TotalFilms > 0 {
		stats.AvgRentalsPerFilm = round2(float64(stats.TotalRentals) / float64(stats.TotalFilms))
	}
	return stats
}

// RoundAvgRentalDays keeps two decimals on each film's average.
func RoundAvgRentalDays(films []TopFilm) {
	for i := range films {
		films[i].AvgRentalDays = round2(films[i].AvgRentalDays)
	}
}

// SummarizeEarnings aggregates staff totals; an empty report is all zeros.
func SummarizeEarnings(rows []StaffEarning) EarningsStats {
	var stats EarningsStats
	if len(rows) == 0 {
		return stats
	}
	stats.HighestEarnings = rows[0].TotalEarnings
	stats.LowestEarnings = rows[0].TotalEarnings
	for _, r := range rows {
		stats.TotalSystemEarnings += r.TotalEarnings
		if r.TotalEarnings > stats.HighestEarnings {
			stats.HighestEarnings = r.TotalEarnings
		}
		if r.TotalEarnings < stats.LowestEarnings {
			stats.LowestEarnings = r.TotalEarnings
		}
	}
	stats.AvgEarningsPerStaff = stats.TotalSystemEarnings.Div(int64(len(rows)))
	return stats
}

// FillEarningsPerRental divides earnings by rentals processed, 0 when none.
func FillEarningsPerRental(rows []StaffEarning) {
	for i := range rows {
		rows[i].EarningsPerRental = rows[i].TotalEarnings.Div(rows[i].TotalRentalsProcessed)
	}
}

const dateOnly = "2006-01-02"

// ParseEarningsRange reads optional start and end dates given as YYYY-MM-DD
// or RFC 3339. A date-only end includes that whole day.
func ParseEarningsRange(start, end string) (from, to *time.Time, err error) {
	if start != "" {
		t, _, err := parseDate(start)
		if err != nil {
			return nil, nil, apperrors.Validation("invalid start_date %q: use YYYY-MM-DD or RFC 3339", start)
		}
		from = &t
	}
	if end != "" {
		t, wholeDay, err := parseDate(end)
		if err != nil {
			return nil, nil, apperrors.Validation("invalid end_date %q: use YYYY-MM-DD or RFC 3339", end)
		}
		if wholeDay {
			t = t.AddDate(0, 0, 1)
		}
		to = &t
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, apperrors.Validation("start_date must be before end_date")
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

// EchoOrAll returns v, or "all" when v is empty.
func EchoOrAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

// NewRentalActivity describes a rental in the recent-activity feed.
func NewRentalActivity(r RecentRental) Activity {
	return Activity{
		Type:        "rental",
		Date:        r.RentalDate,
		Description: "Nueva renta: " + r.FilmTitle,
	}
}
