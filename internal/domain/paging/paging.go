// Package paging normalises page/limit pairs shared by every listing.
package paging

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit far from int overflow.
	MaxPage = 1_000_000
)

// Request is a normalised page request. Page is 1-based.
type Request struct {
	Page  int
	Limit int
}

// New fills defaults for non-positive values and caps page at MaxPage and
// limit at MaxLimit.
func New(page, limit int) Request {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{Page: page, Limit: limit}
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Page is one slice of a listing plus the size of the whole result set.
type Page[T any] struct {
	Items []T
	Total int64
}

// Pages returns ceil(total/limit).
func Pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
