package catalog

import (
	"strings"

	"github.com/xiebiao/dvdrental/internal/domain/money"
)

// Ratings is the MPAA rating enum of the film table.
var Ratings = []string{"G", "PG", "PG-13", "R", "NC-17"}

// ValidRating reports whether r is empty or a known rating.
func ValidRating(r string) bool {
	if r == "" {
		return true
	}
	for _, known := range Ratings {
		if r == known {
			return true
		}
	}
	return false
}

// Film is a catalog row with its copy counts.
// AvailableCopies = TotalCopies minus units that have an open rental.
type Film struct {
	ID              int64
	Title           string
	Description     string
	ReleaseYear     int
	RentalRate      money.Amount
	DurationMinutes int
	Rating          string
	Category        string
	TotalCopies     int64
	AvailableCopies int64
}

// FilmDetail extends Film with the by-id attributes.
type FilmDetail struct {
	Film
	SpecialFeatures []string
	Language        string
	TimesRented     int64
}

// AvailableFilm is a film with at least one free unit.
type AvailableFilm struct {
	ID              int64
	Title           string
	Description     string
	RentalRate      money.Amount
	Rating          string
	Category        string
	AvailableCopies int64
}

type Category struct {
	ID        int64
	Name      string
	FilmCount int64
}

// ListFilter narrows the film listing. Empty strings mean no filter.
type ListFilter struct {
	Category      string
	Rating        string
	AvailableOnly bool
	Offset        int
	Limit         int
}

// SearchFilter is a free-text query with optional narrowing.
type SearchFilter struct {
	Query    string
	Category string
	Rating   string
}

// DefaultAvailableLimit applies when the caller gives no limit.
const DefaultAvailableLimit = 50

// ParseSpecialFeatures splits the stored feature set. Postgres renders the
// text[] column as {a,"b c"}, MySQL stores a SET as a,b.
func ParseSpecialFeatures(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
