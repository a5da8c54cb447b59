package sqlstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/report"
)

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

// within bounds column to the half-open range [from, to).
func within(column string, from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" < ?", *to)
		}
		return db
	}
}

// joinLocation renders "address, city, country" skipping blank parts.
func joinLocation(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func (r *reportRepository) CustomerInfo(ctx context.Context, customerID int64) (*report.CustomerInfo, error) {
	var row struct {
		CustomerID int64
		FirstName  string
		LastName   string
		Email      string
		Active     int
	}
	err := conn(ctx, r.db).Table("customer cu").
		Select("cu.customer_id, cu.first_name, cu.last_name, COALESCE(cu.email, '') AS email, cu.active").
		Where("cu.customer_id = ?", customerID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customer.ErrCustomerNotFound
	}
	if err != nil {
		return nil, translate(err, "load customer")
	}
	return &report.CustomerInfo{
		ID:     row.CustomerID,
		Name:   fullName(row.FirstName, row.LastName),
		Email:  row.Email,
		Active: row.Active != 0,
	}, nil
}

type customerReportRow struct {
	RentalID       int64
	RentalDate     time.Time
	ReturnDate     *time.Time
	FilmID         int64
	FilmTitle      string
	RentalRate     money.Amount
	Category       string
	StaffFirstName string
	StaffLastName  string
	StoreID        int64
	PaymentAmount  *money.Amount
	PaymentDate    *time.Time
}

func (r *reportRepository) CustomerRentals(ctx context.Context, filter report.CustomerRentalsFilter) ([]report.CustomerRentalRow, error) {
	order := "r.rental_date DESC, r.rental_id DESC"
	if filter.Order == report.SortAsc {
		order = "r.rental_date ASC, r.rental_id ASC"
	}

	var rows []customerReportRow
	err := conn(ctx, r.db).Table("rental r").
		Select(`r.rental_id, r.rental_date, r.return_date,
			f.film_id, f.title AS film_title, f.rental_rate, COALESCE(c.name, '') AS category,
			s.first_name AS staff_first_name, s.last_name AS staff_last_name, i.store_id,
			(SELECT SUM(p.amount) FROM payment p WHERE p.rental_id = r.rental_id) AS payment_amount,
			(SELECT MAX(p.payment_date) FROM payment p WHERE p.rental_id = r.rental_id) AS payment_date`).
		Joins("JOIN inventory i ON i.inventory_id = r.inventory_id").
		Joins("JOIN film f ON f.film_id = i.film_id").
		Joins("LEFT JOIN film_category fc ON fc.film_id = f.film_id").
		Joins("LEFT JOIN category c ON c.category_id = fc.category_id").
		Joins("JOIN staff s ON s.staff_id = r.staff_id").
		Where("r.customer_id = ?", filter.CustomerID).
		Scopes(rentalStatus(filter.Status)).
		Order(order).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "customer rental history")
	}

	out := make([]report.CustomerRentalRow, len(rows))
	for i, row := range rows {
		out[i] = report.CustomerRentalRow{
			RentalID:      row.RentalID,
			RentalDate:    row.RentalDate,
			ReturnDate:    row.ReturnDate,
			FilmID:        row.FilmID,
			FilmTitle:     row.FilmTitle,
			RentalRate:    row.RentalRate,
			Category:      row.Category,
			StaffName:     fullName(row.StaffFirstName, row.StaffLastName),
			StoreID:       row.StoreID,
			PaymentAmount: row.PaymentAmount,
			PaymentDate:   row.PaymentDate,
		}
	}
	return out, nil
}

func (r *reportRepository) CustomerStats(ctx context.Context, customerID int64) (report.CustomerStats, error) {
	var stats report.CustomerStats
	err := conn(ctx, r.db).Table("rental r").
		Select(`COUNT(*) AS total_rentals,
			COUNT(CASE WHEN r.return_date IS NULL THEN 1 END) AS active_rentals,
			COUNT(r.return_date) AS returned_rentals,
			(SELECT COALESCE(SUM(p.amount), 0) FROM payment p WHERE p.customer_id = ?) AS total_spent`, customerID).
		Where("r.customer_id = ?", customerID).
		Scan(&stats).Error
	if err != nil {
		return report.CustomerStats{}, translate(err, "customer statistics")
	}
	return stats, nil
}

type overdueRow struct {
	RentalID          int64
	RentalDate        time.Time
	CustomerID        int64
	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	CustomerPhone     string
	Address           string
	City              string
	Country           string
	FilmID            int64
	FilmTitle         string
	RentalRate        money.Amount
	Category          string
	StaffFirstName    string
	StaffLastName     string
	StoreID           int64
}

func (r *reportRepository) OpenRentals(ctx context.Context, cutoff *time.Time) ([]report.OverdueRow, error) {
	q := conn(ctx, r.db).Table("rental r").
		Select(`r.rental_id, r.rental_date,
			cu.customer_id, cu.first_name AS customer_first_name, cu.last_name AS customer_last_name,
			COALESCE(cu.email, '') AS customer_email, COALESCE(a.phone, '') AS customer_phone,
			COALESCE(a.address, '') AS address, COALESCE(ci.city, '') AS city, COALESCE(co.country, '') AS country,
			f.film_id, f.title AS film_title, f.rental_rate, COALESCE(c.name, '') AS category,
			s.first_name AS staff_first_name, s.last_name AS staff_last_name, i.store_id`).
		Joins("JOIN customer cu ON cu.customer_id = r.customer_id").
		Scopes(withAddress).
		Joins("JOIN inventory i ON i.inventory_id = r.inventory_id").
		Joins("JOIN film f ON f.film_id = i.film_id").
		Joins("LEFT JOIN film_category fc ON fc.film_id = f.film_id").
		Joins("LEFT JOIN category c ON c.category_id = fc.category_id").
		Joins("JOIN staff s ON s.staff_id = r.staff_id").
		Where("r.return_date IS NULL")
	if cutoff != nil {
		q = q.Where("r.rental_date <= ?", *cutoff)
	}

	var rows []overdueRow
	if err := q.Order("r.rental_date ASC, r.rental_id ASC").Scan(&rows).Error; err != nil {
		return nil, translate(err, "list open rentals")
	}

	out := make([]report.OverdueRow, len(rows))
	for i, row := range rows {
		out[i] = report.OverdueRow{
			RentalID:        row.RentalID,
			RentalDate:      row.RentalDate,
			CustomerID:      row.CustomerID,
			CustomerName:    fullName(row.CustomerFirstName, row.CustomerLastName),
			CustomerEmail:   row.CustomerEmail,
			CustomerPhone:   row.CustomerPhone,
			CustomerAddress: joinLocation(row.Address, row.City, row.Country),
			FilmID:          row.FilmID,
			FilmTitle:       row.FilmTitle,
			RentalRate:      row.RentalRate,
			Category:        row.Category,
			StaffName:       fullName(row.StaffFirstName, row.StaffLastName),
			StoreID:         row.StoreID,
		}
	}
	return out, nil
}

func (r *reportRepository) OpenRentalDates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	err := conn(ctx, r.db).Model(&RentalModel{}).
		Where("return_date IS NULL").
		Pluck("rental_date", &dates).Error
	if err != nil {
		return nil, translate(err, "open rental dates")
	}
	return dates, nil
}

type topFilmRow struct {
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

func (r *reportRepository) TopFilms(ctx context.Context, filter report.TopFilmsFilter, now time.Time) ([]report.TopFilm, error) {
	db := conn(ctx, r.db)
	revenue := db.Session(&gorm.Session{NewDB: true}).Table("payment").
		Select("rental_id, SUM(amount) AS amount").
		Group("rental_id")

	q := db.Table("film f").
		Select(`f.film_id, f.title, COALESCE(f.description, '') AS description,
			COALESCE(f.release_year, 0) AS release_year, f.rental_rate,
			COALESCE(f.length, 0) AS duration_minutes, f.rating, COALESCE(c.name, '') AS category,
			COUNT(r.rental_id) AS total_rentals,
			COUNT(CASE WHEN r.return_date IS NULL THEN 1 END) AS currently_rented,
			COUNT(r.return_date) AS returned_rentals,
			COALESCE(SUM(p.amount), 0) AS total_revenue,
			COALESCE(AVG(`+elapsedDaysExpr(db)+`), 0) AS avg_rental_days,
			COUNT(DISTINCT r.customer_id) AS unique_customers`, now).
		Joins("LEFT JOIN film_category fc ON fc.film_id = f.film_id").
		Joins("LEFT JOIN category c ON c.category_id = fc.category_id").
		Joins("JOIN inventory i ON i.film_id = f.film_id").
		Joins("JOIN rental r ON r.inventory_id = i.inventory_id").
		Joins("LEFT JOIN (?) p ON p.rental_id = r.rental_id", revenue).
		Scopes(categoryName(filter.Category)).
		Group(filmGroupBy)
	if filter.MinRentals > 0 {
		q = q.Having("COUNT(r.rental_id) >= ?", filter.MinRentals)
	}

	var rows []topFilmRow
	err := q.Order("total_rentals DESC, total_revenue DESC, f.film_id ASC").
		Limit(filter.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "rank films")
	}

	out := make([]report.TopFilm, len(rows))
	for i, row := range rows {
		out[i] = report.TopFilm(row)
	}
	return out, nil
}

func (r *reportRepository) RentalTotals(ctx context.Context) (report.TopFilmsStats, error) {
	var stats report.TopFilmsStats
	err := conn(ctx, r.db).Raw(`SELECT
		(SELECT COUNT(*) FROM film) AS total_films,
		(SELECT COUNT(*) FROM rental) AS total_rentals,
		(SELECT COALESCE(SUM(amount), 0) FROM payment) AS total_system_revenue`).
		Scan(&stats).Error
	if err != nil {
		return report.TopFilmsStats{}, translate(err, "rental totals")
	}
	return stats, nil
}

type staffEarningRow struct {
	StaffID               int64
	FirstName             string
	LastName              string
	StaffEmail            string
	Active                bool
	StoreID               int64
	Address               string
	City                  string
	Country               string
	TotalRentalsProcessed int64
	UniqueCustomersServed int64
	ActiveRentals         int64
	CompletedRentals      int64
	TotalEarnings         money.Amount
	AvgPayment            money.Amount
	FirstTransaction      *time.Time
	LastTransaction       *time.Time
}

func (r *reportRepository) StaffEarnings(ctx context.Context, filter report.EarningsFilter) ([]report.StaffEarning, error) {
	db := conn(ctx, r.db)
	rentals := db.Session(&gorm.Session{NewDB: true}).Table("rental").
		Select(`staff_id, COUNT(*) AS total_rentals,
			COUNT(DISTINCT customer_id) AS unique_customers,
			COUNT(CASE WHEN return_date IS NULL THEN 1 END) AS active_rentals,
			COUNT(return_date) AS completed_rentals`).
		Scopes(within("rental_date", filter.From, filter.To)).
		Group("staff_id")
	payments := db.Session(&gorm.Session{NewDB: true}).Table("payment").
		Select(`staff_id, SUM(amount) AS total_earnings, AVG(amount) AS avg_payment,
			MIN(payment_date) AS first_transaction, MAX(payment_date) AS last_transaction`).
		Scopes(within("payment_date", filter.From, filter.To)).
		Group("staff_id")

	q := db.Table("staff s").
		Select(`s.staff_id, s.first_name, s.last_name, COALESCE(s.email, '') AS staff_email, s.active, s.store_id,
			COALESCE(a.address, '') AS address, COALESCE(ci.city, '') AS city, COALESCE(co.country, '') AS country,
			COALESCE(rs.total_rentals, 0) AS total_rentals_processed,
			COALESCE(rs.unique_customers, 0) AS unique_customers_served,
			COALESCE(rs.active_rentals, 0) AS active_rentals,
			COALESCE(rs.completed_rentals, 0) AS completed_rentals,
			COALESCE(ps.total_earnings, 0) AS total_earnings,
			COALESCE(ps.avg_payment, 0) AS avg_payment,
			ps.first_transaction, ps.last_transaction`).
		Joins("LEFT JOIN store st ON st.store_id = s.store_id").
		Joins("LEFT JOIN address a ON a.address_id = st.address_id").
		Joins("LEFT JOIN city ci ON ci.city_id = a.city_id").
		Joins("LEFT JOIN country co ON co.country_id = ci.country_id").
		Joins("LEFT JOIN (?) rs ON rs.staff_id = s.staff_id", rentals).
		Joins("LEFT JOIN (?) ps ON ps.staff_id = s.staff_id", payments)
	if filter.StoreID != nil {
		q = q.Where("s.store_id = ?", *filter.StoreID)
	}

	var rows []staffEarningRow
	if err := q.Order("total_earnings DESC, s.staff_id ASC").Scan(&rows).Error; err != nil {
		return nil, translate(err, "staff earnings")
	}

	out := make([]report.StaffEarning, len(rows))
	for i, row := range rows {
		out[i] = report.StaffEarning{
			StaffID:               row.StaffID,
			StaffName:             fullName(row.FirstName, row.LastName),
			StaffEmail:            row.StaffEmail,
			Active:                row.Active,
			StoreID:               row.StoreID,
			StoreLocation:         joinLocation(row.Address, row.City, row.Country),
			TotalRentalsProcessed: row.TotalRentalsProcessed,
			UniqueCustomersServed: row.UniqueCustomersServed,
			TotalEarnings:         row.TotalEarnings,
			AvgPayment:            row.AvgPayment,
			FirstTransaction:      row.FirstTransaction,
			LastTransaction:       row.LastTransaction,
			ActiveRentals:         row.ActiveRentals,
			CompletedRentals:      row.CompletedRentals,
		}
	}
	return out, nil
}

func (r *reportRepository) Counts(ctx context.Context) (report.Counts, error) {
	var counts report.Counts
	err := conn(ctx, r.db).Raw(`SELECT
		(SELECT COUNT(*) FROM customer WHERE active = 1) AS active_customers,
		(SELECT COUNT(*) FROM film) AS total_films,
		(SELECT COUNT(*) FROM inventory) AS total_inventory,
		(SELECT COUNT(*) FROM rental WHERE return_date IS NULL) AS active_rentals,
		(SELECT COUNT(*) FROM rental WHERE return_date IS NOT NULL) AS completed_rentals,
		(SELECT COUNT(*) FROM rental) AS total_rentals,
		(SELECT COALESCE(SUM(amount), 0) FROM payment) AS total_revenue,
		(SELECT COUNT(*) FROM staff WHERE active = ?) AS active_staff,
		(SELECT COUNT(*) FROM store) AS total_stores`, true).
		Scan(&counts).Error
	if err != nil {
		return report.Counts{}, translate(err, "system counts")
	}
	return counts, nil
}

func (r *reportRepository) TopCategories(ctx context.Context, limit int) ([]report.CategoryRentals, error) {
	var rows []report.CategoryRentals
	err := conn(ctx, r.db).Table("category c").
		Select("c.name AS category, COUNT(r.rental_id) AS rentals").
		Joins("JOIN film_category fc ON fc.category_id = c.category_id").
		Joins("JOIN inventory i ON i.film_id = fc.film_id").
		Joins("JOIN rental r ON r.inventory_id = i.inventory_id").
		Group("c.category_id, c.name").
		Order("rentals DESC, c.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "top categories")
	}
	return rows, nil
}

func (r *reportRepository) RecentRentals(ctx context.Context, limit int) ([]report.RecentRental, error) {
	var rows []report.RecentRental
	err := conn(ctx, r.db).Table("rental r").
		Select("r.rental_date, f.title AS film_title").
		Joins("JOIN inventory i ON i.inventory_id = r.inventory_id").
		Joins("JOIN film f ON f.film_id = i.film_id").
		Order("r.rental_date DESC, r.rental_id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "recent rentals")
	}
	return rows, nil
}
