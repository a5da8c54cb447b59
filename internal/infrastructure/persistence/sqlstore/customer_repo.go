package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/domain/money"
)

type customerRow struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Email         string
	Active        int
	CreateDate    time.Time
	Address       string
	City          string
	Country       string
	TotalRentals  int64
	ActiveRentals int64
}

func (row customerRow) address() customer.Address {
	return customer.Address{Address: row.Address, City: row.City, Country: row.Country}
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepository{db: db}
}

func customerActive(f customer.ActiveFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.Set {
			return db
		}
		flag := 0
		if f.Active {
			flag = 1
		}
		return db.Where("cu.active = ?", flag)
	}
}

func withAddress(db *gorm.DB) *gorm.DB {
	return db.
		Joins("LEFT JOIN address a ON a.address_id = cu.address_id").
		Joins("LEFT JOIN city ci ON ci.city_id = a.city_id").
		Joins("LEFT JOIN country co ON co.country_id = ci.country_id")
}

func (r *customerRepository) List(ctx context.Context, filter customer.ListFilter) ([]customer.Customer, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Table("customer cu").Scopes(customerActive(filter.Active)).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count customers")
	}

	var rows []customerRow
	err := conn(ctx, r.db).Table("customer cu").
		Select(`cu.customer_id, cu.first_name, cu.last_name, COALESCE(cu.email, '') AS email,
			cu.active, cu.create_date,
			COALESCE(a.address, '') AS address, COALESCE(ci.city, '') AS city, COALESCE(co.country, '') AS country,
			COUNT(r.rental_id) AS total_rentals,
			COUNT(CASE WHEN r.rental_id IS NOT NULL AND r.return_date IS NULL THEN 1 END) AS active_rentals`).
		Scopes(withAddress, customerActive(filter.Active)).
		Joins("LEFT JOIN rental r ON r.customer_id = cu.customer_id").
		Group("cu.customer_id, cu.first_name, cu.last_name, cu.email, cu.active, cu.create_date, a.address, ci.city, co.country").
		Order("cu.last_name ASC, cu.first_name ASC, cu.customer_id ASC").
		Scopes(paginate(filter.Offset, filter.Limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "list customers")
	}

	out := make([]customer.Customer, len(rows))
	for i, row := range rows {
		out[i] = customer.Customer{
			ID:            row.CustomerID,
			Name:          fullName(row.FirstName, row.LastName),
			Email:         row.Email,
			Active:        row.Active != 0,
			CreateDate:    row.CreateDate,
			Address:       row.address(),
			TotalRentals:  row.TotalRentals,
			ActiveRentals: row.ActiveRentals,
		}
	}
	return out, total, nil
}

type customerDetailRow struct {
	customerRow
	Phone      string
	StoreID    int64
	TotalSpent money.Amount
}

func (r *customerRepository) FindByID(ctx context.Context, id int64) (*customer.Detail, error) {
	var rows []customerDetailRow
	err := conn(ctx, r.db).Table("customer cu").
		Select(`cu.customer_id, cu.first_name, cu.last_name, COALESCE(cu.email, '') AS email,
			cu.active, cu.create_date, cu.store_id,
			COALESCE(a.address, '') AS address, COALESCE(ci.city, '') AS city, COALESCE(co.country, '') AS country,
			COALESCE(a.phone, '') AS phone,
			(SELECT COUNT(*) FROM rental r WHERE r.customer_id = cu.customer_id) AS total_rentals,
			(SELECT COUNT(*) FROM rental r WHERE r.customer_id = cu.customer_id AND r.return_date IS NULL) AS active_rentals,
			(SELECT COALESCE(SUM(p.amount), 0) FROM payment p WHERE p.customer_id = cu.customer_id) AS total_spent`).
		Scopes(withAddress).
		Where("cu.customer_id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load customer")
	}
	if len(rows) == 0 {
		return nil, customer.ErrCustomerNotFound
	}
	row := rows[0]
	return &customer.Detail{
		ID:            row.CustomerID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		Email:         row.Email,
		Active:        row.Active != 0,
		CreateDate:    row.CreateDate,
		Address:       row.address(),
		Phone:         row.Phone,
		StoreID:       row.StoreID,
		TotalRentals:  row.TotalRentals,
		ActiveRentals: row.ActiveRentals,
		TotalSpent:    row.TotalSpent,
	}, nil
}

func (r *customerRepository) Search(ctx context.Context, query string, limit int) ([]customer.Match, error) {
	var rows []customerRow
	err := conn(ctx, r.db).Table("customer cu").
		Select(`cu.customer_id, cu.first_name, cu.last_name, COALESCE(cu.email, '') AS email, cu.active,
			COALESCE(a.address, '') AS address, COALESCE(ci.city, '') AS city, COALESCE(co.country, '') AS country`).
		Scopes(withAddress, containsAny(query, "cu.first_name", "cu.last_name", "COALESCE(cu.email, '')")).
		Order("cu.last_name ASC, cu.first_name ASC, cu.customer_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "search customers")
	}

	out := make([]customer.Match, len(rows))
	for i, row := range rows {
		out[i] = customer.Match{
			ID:      row.CustomerID,
			Name:    fullName(row.FirstName, row.LastName),
			Email:   row.Email,
			Active:  row.Active != 0,
			Address: row.address(),
		}
	}
	return out, nil
}
