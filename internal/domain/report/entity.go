package report

import (
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
)

// SortOrder orders a customer's history by rental date.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder returns SortAsc for "asc" and SortDesc for anything else.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortAsc) {
		return SortAsc
	}
	return SortDesc
}

type CustomerInfo struct {
	ID     int64
	Name   string
	Email  string
	Active bool
}

// CustomerRentalRow is one rental in the customer report.
type CustomerRentalRow struct {
	RentalID      int64
	RentalDate    time.Time
	ReturnDate    *time.Time
	FilmID        int64
	FilmTitle     string
	RentalRate    money.Amount
	Category      string
	StaffName     string
	StoreID       int64
	PaymentAmount *money.Amount
	PaymentDate   *time.Time
	RentalDays    int
}

func (r CustomerRentalRow) Status() rental.Status { return rental.StatusOf(r.ReturnDate) }

type CustomerStats struct {
	TotalRentals    int64
	ActiveRentals   int64
	ReturnedRentals int64
	TotalSpent      money.Amount
}

type CustomerRentalsFilter struct {
	CustomerID int64
	Status     rental.Status
	Order      SortOrder
}

type CustomerRentals struct {
	Customer   CustomerInfo
	Statistics CustomerStats
	Rentals    []CustomerRentalRow
}

// OverdueSort selects the ordering of the overdue report.
type OverdueSort string

const (
	SortByDays     OverdueSort = "days"
	SortByCustomer OverdueSort = "customer"
)

// ParseOverdueSort returns SortByCustomer for "customer" and SortByDays otherwise.
func ParseOverdueSort(s string) OverdueSort {
	if s == string(SortByCustomer) {
		return SortByCustomer
	}
	return SortByDays
}

// OverdueRow is an open rental with contact details for follow-up.
type OverdueRow struct {
	RentalID        int64
	RentalDate      time.Time
	DaysOverdue     int
	CustomerID      int64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	FilmID          int64
	FilmTitle       string
	RentalRate      money.Amount
	Category        string
	StaffName       string
	StoreID         int64
	Urgency         Urgency
}

type OverdueStats struct {
	TotalUnreturned int64
	Overdue         int64
	NearOverdue     int64
	OnTime          int64
	AvgDaysOut      float64
}

type OverdueFilter struct {
	MinDays *int
	SortBy  OverdueSort
}

type Overdue struct {
	Statistics OverdueStats
	Rows       []OverdueRow
}

// TopFilm is a film ranked by rental count.
type TopFilm struct {
	FilmID          int64
	Title           string
	Description     string
	ReleaseYear     int
	RentalRate      money.Amount
	DurationMinutes int
	Rating          string
	Category        string
	TotalRentals    int64
	CurrentlyRented int64
	ReturnedRentals int64
	TotalRevenue    money.Amount
	AvgRentalDays   float64
	UniqueCustomers int64
}

type TopFilmsFilter struct {
	Limit      int
	Category   string
	MinRentals int
}

// DefaultTopFilmsLimit applies when the caller gives no limit.
const DefaultTopFilmsLimit = 10

type TopFilmsStats struct {
	TotalFilms         int64
	TotalRentals       int64
	TotalSystemRevenue money.Amount
	AvgRentalsPerFilm  float64
}

type TopFilms struct {
	Statistics TopFilmsStats
	Films      []TopFilm
}

// StaffEarning aggregates the rentals and payments handled by one staff member.
type StaffEarning struct {
	StaffID               int64
	StaffName             string
	StaffEmail            string
	Active                bool
	StoreID               int64
	StoreLocation         string
	TotalRentalsProcessed int64
	UniqueCustomersServed int64
	TotalEarnings         money.Amount
	AvgPayment            money.Amount
	FirstTransaction      *time.Time
	LastTransaction       *time.Time
	ActiveRentals         int64
	CompletedRentals      int64
	EarningsPerRental     money.Amount
}

// EarningsFilter bounds rental_date and payment_date to [From, To).
type EarningsFilter struct {
	From    *time.Time
	To      *time.Time
	StoreID *int64
}

// EarningsEcho reports the filters as received; unset ones read "all".
type EarningsEcho struct {
	StartDate string
	EndDate   string
	StoreID   string
}

type EarningsStats struct {
	TotalSystemEarnings money.Amount
	AvgEarningsPerStaff money.Amount
	HighestEarnings     money.Amount
	LowestEarnings      money.Amount
}

type StaffEarnings struct {
	Statistics EarningsStats
	Staff      []StaffEarning
	Filters    EarningsEcho
}

// Counts is the point-in-time system snapshot.
type Counts struct {
	ActiveCustomers  int64
	TotalFilms       int64
	TotalInventory   int64
	ActiveRentals    int64
	CompletedRentals int64
	TotalRentals     int64
	TotalRevenue     money.Amount
	ActiveStaff      int64
	TotalStores      int64
}

type CategoryRentals struct {
	Category string
	Rentals  int64
}

// RecentRental is the raw material of an activity entry.
type RecentRental struct {
	RentalDate time.Time
	FilmTitle  string
}

type Activity struct {
	Type        string
	Date        time.Time
	Description string
}

const (
	TopCategoriesLimit  = 5
	RecentActivityLimit = 10
)

type Summary struct {
	Counts         Counts
	TopCategories  []CategoryRentals
	RecentActivity []Activity
}
