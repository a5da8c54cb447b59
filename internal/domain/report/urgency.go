package report

import (
	"math"
	"time"
)

// Urgency classifies how long an open rental has been out.
type Urgency string

const (
	UrgencyOverdue Urgency = "Atrasado"
	UrgencyNearDue Urgency = "Próximo a vencer"
	UrgencyNormal  Urgency = "Normal"
)

// Tier thresholds in whole days; a rental is in a tier when strictly above it.
const (
	overdueAfterDays = 7
	nearDueAfterDays = 3
)

// UrgencyFor maps elapsed whole days onto a tier.
func UrgencyFor(days int) Urgency {
	switch {
	case days > overdueAfterDays:
		return UrgencyOverdue
	case days > nearDueAfterDays:
		return UrgencyNearDue
	default:
		return UrgencyNormal
	}
}

// ElapsedDays is the number of whole 24h periods from since to now, never negative.
func ElapsedDays(since, now time.Time) int {
	d := now.Sub(since)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// RentalDays measures a rental up to its return, or up to now while open.
func RentalDays(rentalDate time.Time, returnDate *time.Time, now time.Time) int {
	if returnDate != nil {
		return ElapsedDays(rentalDate, *returnDate)
	}
	return ElapsedDays(rentalDate, now)
}

// MinDaysCutoff converts "out for at least n days" into a rental_date upper bound.
func MinDaysCutoff(n int, now time.Time) time.Time {
	return now.Add(-time.Duration(n) * 24 * time.Hour)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
