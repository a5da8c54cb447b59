package sqlstore

import (
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/dvdrental/internal/domain/rental"
)

// Scopes compose parameterised predicates onto a query. No user value is
// ever formatted into SQL text.

func paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

// rentalStatus filters on the r alias; the empty status is no filter.
func rentalStatus(s rental.Status) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s {
		case rental.StatusActive:
			return db.Where("r.return_date IS NULL")
		case rental.StatusReturned:
			return db.Where("r.return_date IS NOT NULL")
		default:
			return db
		}
	}
}

// categoryName filters on the c alias (category).
func categoryName(name string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if name == "" {
			return db
		}
		return db.Where("c.name = ?", name)
	}
}

// filmRating filters on the f alias (film).
func filmRating(rating string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if rating == "" {
			return db
		}
		return db.Where("f.rating = ?", rating)
	}
}

// containsAny matches term as a case-insensitive substring of any column.
func containsAny(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		pattern := "%" + escapeLike(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE LOWER(?)"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards; backslash is the default escape
// character on both supported dialects.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
