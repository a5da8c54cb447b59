package customer

import (
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
)

// Address is the customer's postal address resolved through city and country.
type Address struct {
	Address string
	City    string
	Country string
}

// Customer is a listing row with derived rental counts.
type Customer struct {
	ID            int64
	Name          string
	Email         string
	Active        bool
	CreateDate    time.Time
	Address       Address
	TotalRentals  int64
	ActiveRentals int64
}

// Detail is the by-id view of a customer.
type Detail struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	Active        bool
	CreateDate    time.Time
	Address       Address
	Phone         string
	StoreID       int64
	TotalRentals  int64
	ActiveRentals int64
	TotalSpent    money.Amount
}

// Match is a free-text search hit.
type Match struct {
	ID      int64
	Name    string
	Email   string
	Active  bool
	Address Address
}

// ActiveFilter selects customers by the active flag. Unset means no filter.
type ActiveFilter struct {
	Set    bool
	Active bool
}

// ParseActive keeps the listing rule for the active query parameter: an
// absent value is no filter, "true" selects active customers and any other
// value selects inactive ones.
func ParseActive(raw string, present bool) ActiveFilter {
	if !present {
		return ActiveFilter{}
	}
	return ActiveFilter{Set: true, Active: raw == "true"}
}

// ListFilter narrows the customer listing.
type ListFilter struct {
	Active ActiveFilter
	Offset int
	Limit  int
}
