package dto

import (
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/report"
)

// Reports put their sections at the top level next to "success".

type ReportCustomer struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Active     bool   `json:"active"`
}

type CustomerRentalStats struct {
	TotalRentals    int64        `json:"total_rentals"`
	ActiveRentals   int64        `json:"active_rentals"`
	ReturnedRentals int64        `json:"returned_rentals"`
	TotalSpent      money.Amount `json:"total_spent" swaggertype:"string"`
}

type CustomerRentalLine struct {
	RentalID      int64         `json:"rental_id"`
	RentalDate    time.Time     `json:"rental_date"`
	ReturnDate    *time.Time    `json:"return_date"`
	FilmID        int64         `json:"film_id"`
	FilmTitle     string        `json:"film_title"`
	RentalRate    money.Amount  `json:"rental_rate" swaggertype:"string"`
	Category      string        `json:"category"`
	StaffName     string        `json:"staff_name"`
	StoreID       int64         `json:"store_id"`
	PaymentAmount *money.Amount `json:"payment_amount" swaggertype:"string"`
	PaymentDate   *time.Time    `json:"payment_date"`
	Status        string        `json:"status"`
	RentalDays    int           `json:"rental_days"`
}

type CustomerRentalsReport struct {
	Success    bool                 `json:"success" example:"true"`
	Customer   ReportCustomer       `json:"customer"`
	Statistics CustomerRentalStats  `json:"statistics"`
	Rentals    []CustomerRentalLine `json:"rentals"`
	Total      int                  `json:"total"`
}

func NewCustomerRentalsReport(r *report.CustomerRentals) CustomerRentalsReport {
	lines := make([]CustomerRentalLine, len(r.Rentals))
	for i, row := range r.Rentals {
		lines[i] = CustomerRentalLine{
			RentalID:      row.RentalID,
			RentalDate:    row.RentalDate,
			ReturnDate:    row.ReturnDate,
			FilmID:        row.FilmID,
			FilmTitle:     row.FilmTitle,
			RentalRate:    row.RentalRate,
			Category:      row.Category,
			StaffName:     row.StaffName,
			StoreID:       row.StoreID,
			PaymentAmount: row.PaymentAmount,
			PaymentDate:   row.PaymentDate,
			Status:        row.Status().Label(),
			RentalDays:    row.RentalDays,
		}
	}
	return CustomerRentalsReport{
		Success: true,
		Customer: ReportCustomer{
			CustomerID: r.Customer.ID,
			Name:       r.Customer.Name,
			Email:      r.Customer.Email,
			Active:     r.Customer.Active,
		},
		Statistics: CustomerRentalStats(r.Statistics),
		Rentals:    lines,
		Total:      len(lines),
	}
}

type OverdueStats struct {
	TotalUnreturned int64   `json:"total_unreturned"`
	Overdue         int64   `json:"overdue"`
	NearOverdue     int64   `json:"near_overdue"`
	OnTime          int64   `json:"on_time"`
	AvgDaysOut      float64 `json:"avg_days_out" example:"4.25"`
}

type OverdueLine struct {
	RentalID        int64        `json:"rental_id"`
	RentalDate      time.Time    `json:"rental_date"`
	DaysOverdue     int          `json:"days_overdue"`
	CustomerID      int64        `json:"customer_id"`
	CustomerName    string       `json:"customer_name"`
	CustomerEmail   string       `json:"customer_email"`
	CustomerPhone   string       `json:"customer_phone"`
	CustomerAddress string       `json:"customer_address"`
	FilmID          int64        `json:"film_id"`
	FilmTitle       string       `json:"film_title"`
	RentalRate      money.Amount `json:"rental_rate" swaggertype:"string"`
	Category        string       `json:"category"`
	StaffName       string       `json:"staff_name"`
	StoreID         int64        `json:"store_id"`
	UrgencyStatus   string       `json:"urgency_status" example:"Atrasado"`
}

type OverdueReport struct {
	Success        bool          `json:"success" example:"true"`
	Statistics     OverdueStats  `json:"statistics"`
	UnreturnedDVDs []OverdueLine `json:"unreturned_dvds"`
	Total          int           `json:"total"`
}

func NewOverdueReport(r *report.Overdue) OverdueReport {
	lines := make([]OverdueLine, len(r.Rows))
	for i, row := range r.Rows {
		lines[i] = OverdueLine{
			RentalID:        row.RentalID,
			RentalDate:      row.RentalDate,
			DaysOverdue:     row.DaysOverdue,
			CustomerID:      row.CustomerID,
			CustomerName:    row.CustomerName,
			CustomerEmail:   row.CustomerEmail,
			CustomerPhone:   row.CustomerPhone,
			CustomerAddress: row.CustomerAddress,
			FilmID:          row.FilmID,
			FilmTitle:       row.FilmTitle,
			RentalRate:      row.RentalRate,
			Category:        row.Category,
			StaffName:       row.StaffName,
			StoreID:         row.StoreID,
			UrgencyStatus:   string(row.Urgency),
		}
	}
	return OverdueReport{
		Success:        true,
		Statistics:     OverdueStats(r.Statistics),
		UnreturnedDVDs: lines,
		Total:          len(lines),
	}
}

type TopFilmsStats struct {
	TotalFilms         int64        `json:"total_films"`
	TotalRentals       int64        `json:"total_rentals"`
	TotalSystemRevenue money.Amount `json:"total_system_revenue" swaggertype:"string"`
	AvgRentalsPerFilm  float64      `json:"avg_rentals_per_film"`
}

type TopFilmLine struct {
	FilmID          int64        `json:"film_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ReleaseYear     int          `json:"release_year"`
	RentalRate      money.Amount `json:"rental_rate" swaggertype:"string"`
	DurationMinutes int          `json:"duration_minutes"`
	Rating          string       `json:"rating"`
	Category        string       `json:"category"`
	TotalRentals    int64        `json:"total_rentals"`
	CurrentlyRented int64        `json:"currently_rented"`
	ReturnedRentals int64        `json:"returned_rentals"`
	TotalRevenue    money.Amount `json:"total_revenue" swaggertype:"string"`
	AvgRentalDays   float64      `json:"avg_rental_days"`
	UniqueCustomers int64        `json:"unique_customers"`
}

type TopFilmsReport struct {
	Success    bool          `json:"success" example:"true"`
	Statistics TopFilmsStats `json:"statistics"`
	TopFilms   []TopFilmLine `json:"top_films"`
	Total      int           `json:"total"`
}

func NewTopFilmsReport(r *report.TopFilms) TopFilmsReport {
	lines := make([]TopFilmLine, len(r.Films))
	for i, f := range r.Films {
		lines[i] = TopFilmLine(f)
	}
	return TopFilmsReport{
		Success:    true,
		Statistics: TopFilmsStats(r.Statistics),
		TopFilms:   lines,
		Total:      len(lines),
	}
}

type EarningsStats struct {
	TotalSystemEarnings money.Amount `json:"total_system_earnings" swaggertype:"string"`
	AvgEarningsPerStaff money.Amount `json:"avg_earnings_per_staff" swaggertype:"string"`
	HighestEarnings     money.Amount `json:"highest_earnings" swaggertype:"string"`
	LowestEarnings      money.Amount `json:"lowest_earnings" swaggertype:"string"`
}

type StaffEarningLine struct {
	StaffID               int64        `json:"staff_id"`
	StaffName             string       `json:"staff_name"`
	StaffEmail            string       `json:"staff_email"`
	Active                bool         `json:"active"`
	StoreID               int64        `json:"store_id"`
	StoreLocation         string       `json:"store_location"`
	TotalRentalsProcessed int64        `json:"total_rentals_processed"`
	UniqueCustomersServed int64        `json:"unique_customers_served"`
	TotalEarnings         money.Amount `json:"total_earnings" swaggertype:"string"`
	AvgPayment            money.Amount `json:"avg_payment" swaggertype:"string"`
	FirstTransaction      *time.Time   `json:"first_transaction"`
	LastTransaction       *time.Time   `json:"last_transaction"`
	ActiveRentals         int64        `json:"active_rentals"`
	CompletedRentals      int64        `json:"completed_rentals"`
	EarningsPerRental     money.Amount `json:"earnings_per_rental" swaggertype:"string"`
}

type EarningsFilters struct {
	StartDate string `json:"start_date" example:"all"`
	EndDate   string `json:"end_date" example:"all"`
	StoreID   string `json:"store_id" example:"all"`
}

type StaffEarningsReport struct {
	Success       bool               `json:"success" example:"true"`
	Statistics    EarningsStats      `json:"statistics"`
	StaffEarnings []StaffEarningLine `json:"staff_earnings"`
	TotalStaff    int                `json:"total_staff"`
	Filters       EarningsFilters    `json:"filters"`
}

func NewStaffEarningsReport(r *report.StaffEarnings) StaffEarningsReport {
	lines := make([]StaffEarningLine, len(r.Staff))
	for i, s := range r.Staff {
		lines[i] = StaffEarningLine(s)
	}
	return StaffEarningsReport{
		Success:       true,
		Statistics:    EarningsStats(r.Statistics),
		StaffEarnings: lines,
		TotalStaff:    len(lines),
		Filters:       EarningsFilters(r.Filters),
	}
}

type SummaryCounts struct {
	ActiveCustomers  int64        `json:"active_customers"`
	TotalFilms       int64        `json:"total_films"`
	TotalInventory   int64        `json:"total_inventory"`
	ActiveRentals    int64        `json:"active_rentals"`
	CompletedRentals int64        `json:"completed_rentals"`
	TotalRentals     int64        `json:"total_rentals"`
	TotalRevenue     money.Amount `json:"total_revenue" swaggertype:"string"`
	ActiveStaff      int64        `json:"active_staff"`
	TotalStores      int64        `json:"total_stores"`
}

type CategoryRentals struct {
	Category string `json:"category"`
	Rentals  int64  `json:"rentals"`
}

type ActivityEntry struct {
	Type        string    `json:"type" example:"rental"`
	Date        time.Time `json:"date"`
	Description string    `json:"description" example:"Nueva renta: ACADEMY DINOSAUR"`
}

type SummaryReport struct {
	Success        bool              `json:"success" example:"true"`
	Summary        SummaryCounts     `json:"summary"`
	TopCategories  []CategoryRentals `json:"top_categories"`
	RecentActivity []ActivityEntry   `json:"recent_activity"`
}

func NewSummaryReport(r *report.Summary) SummaryReport {
	cats := make([]CategoryRentals, len(r.TopCategories))
	for i, c := range r.TopCategories {
		cats[i] = CategoryRentals(c)
	}
	activity := make([]ActivityEntry, len(r.RecentActivity))
	for i, a := range r.RecentActivity {
		activity[i] = ActivityEntry(a)
	}
	return SummaryReport{
		Success:        true,
		Summary:        SummaryCounts(r.Counts),
		TopCategories:  cats,
		RecentActivity: activity,
	}
}
