// Package search holds the rules shared by the free-text lookups.
package search

import (
	"strings"

	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

// MaxResults caps every free-text search; results are not paginated.
const MaxResults = 50

// Term validates a raw query. Blank input is rejected before any statement runs.
func Term(q string) (string, error) {
	t := strings.TrimSpace(q)
	if t == "" {
		return "", apperrors.ErrEmptyQuery
	}
	return t, nil
}
