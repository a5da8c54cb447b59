package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
)

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) rental.Repository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) LockInventory(ctx context.Context, inventoryID int64) error {
	var inv InventoryModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("inventory_id = ?", inventoryID).
		Take(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rental.ErrInventoryNotFound
	}
	return translate(err, "lock inventory unit")
}

func (r *rentalRepository) HasOpenRental(ctx context.Context, inventoryID int64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&RentalModel{}).
		Where("inventory_id = ? AND return_date IS NULL", inventoryID).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "check open rental")
	}
	return n > 0, nil
}

func (r *rentalRepository) Create(ctx context.Context, rent *rental.Rental) error {
	model := toRentalModel(rent)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicate(err) {
			return rental.ErrUnitAlreadyRented.WithCause(err)
		}
		return translate(err, "create rental")
	}
	rent.ID = model.RentalID
	return nil
}

func (r *rentalRepository) LockByID(ctx context.Context, id int64) (*rental.Rental, error) {
	var model RentalModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("rental_id = ?", id).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rental.ErrRentalNotFound
	}
	if err != nil {
		return nil, translate(err, "lock rental")
	}
	return toRentalEntity(&model), nil
}

func (r *rentalRepository) MarkReturned(ctx context.Context, id int64, at time.Time) error {
	res := conn(ctx, r.db).Model(&RentalModel{}).
		Where("rental_id = ?", id).
		Updates(map[string]any{"return_date": at, "last_update": at})
	if res.Error != nil {
		return translate(res.Error, "mark rental returned")
	}
	if res.RowsAffected == 0 {
		return rental.ErrRentalNotFound
	}
	return nil
}

func (r *rentalRepository) RentalRate(ctx context.Context, inventoryID int64) (money.Amount, error) {
	var rows []struct {
		RentalRate money.Amount
	}
	err := conn(ctx, r.db).Table("film f").
		Select("f.rental_rate").
		Joins("JOIN inventory i ON i.film_id = f.film_id").
		Where("i.inventory_id = ?", inventoryID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return 0, translate(err, "read rental rate")
	}
	if len(rows) == 0 {
		return 0, rental.ErrInventoryNotFound
	}
	return rows[0].RentalRate, nil
}

func (r *rentalRepository) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Where("rental_id = ?", id).Delete(&RentalModel{})
	if res.Error != nil {
		return translate(res.Error, "delete rental")
	}
	if res.RowsAffected == 0 {
		return rental.ErrRentalNotFound
	}
	return nil
}

type rentalDetailRow struct {
	RentalID          int64
	RentalDate        time.Time
	ReturnDate        *time.Time
	InventoryID       int64
	CustomerID        int64
	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	FilmID            int64
	FilmTitle         string
	FilmDescription   string
	RentalRate        money.Amount
	StaffID           int64
	StaffFirstName    string
	StaffLastName     string
}

func (r *rentalRepository) FindDetail(ctx context.Context, id int64) (*rental.Detail, error) {
	var rows []rentalDetailRow
	err := conn(ctx, r.db).Table("rental r").
		Select(`r.rental_id, r.rental_date, r.return_date, r.inventory_id,
			c.customer_id, c.first_name AS customer_first_name, c.last_name AS customer_last_name,
			COALESCE(c.email, '') AS customer_email,
			f.film_id, f.title AS film_title, COALESCE(f.description, '') AS film_description, f.rental_rate,
			s.staff_id, s.first_name AS staff_first_name, s.last_name AS staff_last_name`).
		Joins("JOIN customer c ON c.customer_id = r.customer_id").
		Joins("JOIN inventory i ON i.inventory_id = r.inventory_id").
		Joins("JOIN film f ON f.film_id = i.film_id").
		Joins("JOIN staff s ON s.staff_id = r.staff_id").
		Where("r.rental_id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load rental")
	}
	if len(rows) == 0 {
		return nil, rental.ErrRentalNotFound
	}
	row := rows[0]
	return &rental.Detail{
		RentalID:        row.RentalID,
		RentalDate:      row.RentalDate,
		ReturnDate:      row.ReturnDate,
		InventoryID:     row.InventoryID,
		CustomerID:      row.CustomerID,
		CustomerName:    fullName(row.CustomerFirstName, row.CustomerLastName),
		CustomerEmail:   row.CustomerEmail,
		FilmID:          row.FilmID,
		FilmTitle:       row.FilmTitle,
		FilmDescription: row.FilmDescription,
		RentalRate:      row.RentalRate,
		StaffID:         row.StaffID,
		StaffName:       fullName(row.StaffFirstName, row.StaffLastName),
	}, nil
}

type rentalSummaryRow struct {
	RentalID          int64
	RentalDate        time.Time
	ReturnDate        *time.Time
	CustomerID        int64
	CustomerFirstName string
	CustomerLastName  string
	FilmID            int64
	FilmTitle         string
	StaffID           int64
	StaffFirstName    string
	StaffLastName     string
}

func (r *rentalRepository) List(ctx context.Context, filter rental.ListFilter) ([]rental.Summary, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Table("rental r").Scopes(rentalStatus(filter.Status)).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count rentals")
	}

	var rows []rentalSummaryRow
	err := conn(ctx, r.db).Table("rental r").
		Select(`r.rental_id, r.rental_date, r.return_date,
			c.customer_id, c.first_name AS customer_first_name, c.last_name AS customer_last_name,
			f.film_id, f.title AS film_title,
			s.staff_id, s.first_name AS staff_first_name, s.last_name AS staff_last_name`).
		Joins("JOIN customer c ON c.customer_id = r.customer_id").
		Joins("JOIN inventory i ON i.inventory_id = r.inventory_id").
		Joins("JOIN film f ON f.film_id = i.film_id").
		Joins("JOIN staff s ON s.staff_id = r.staff_id").
		Scopes(rentalStatus(filter.Status), paginate(filter.Offset, filter.Limit)).
		Order("r.rental_date DESC, r.rental_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "list rentals")
	}

	out := make([]rental.Summary, len(rows))
	for i, row := range rows {
		out[i] = rental.Summary{
			RentalID:     row.RentalID,
			RentalDate:   row.RentalDate,
			ReturnDate:   row.ReturnDate,
			CustomerID:   row.CustomerID,
			CustomerName: fullName(row.CustomerFirstName, row.CustomerLastName),
			FilmID:       row.FilmID,
			FilmTitle:    row.FilmTitle,
			StaffID:      row.StaffID,
			StaffName:    fullName(row.StaffFirstName, row.StaffLastName),
		}
	}
	return out, total, nil
}

type customerRentalRow struct {
	RentalID       int64
	RentalDate     time.Time
	ReturnDate     *time.Time
	FilmTitle      string
	RentalRate     money.Amount
	StaffFirstName string
	StaffLastName  string
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID int64) ([]rental.CustomerRental, error) {
	var rows []customerRentalRow
	err := conn(ctx, r.db).Table("rental r").
		Select(`r.rental_id, r.rental_date, r.return_date, f.title AS film_title, f.rental_rate,
			s.first_name AS staff_first_name, s.last_name AS staff_last_name`).
		Joins("JOIN inventory i ON i.inventory_id = r.inventory_id").
		Joins("JOIN film f ON f.film_id = i.film_id").
		Joins("JOIN staff s ON s.staff_id = r.staff_id").
		Where("r.customer_id = ?", customerID).
		Order("r.rental_date DESC, r.rental_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "list customer rentals")
	}

	out := make([]rental.CustomerRental, len(rows))
	for i, row := range rows {
		out[i] = rental.CustomerRental{
			RentalID:   row.RentalID,
			RentalDate: row.RentalDate,
			ReturnDate: row.ReturnDate,
			FilmTitle:  row.FilmTitle,
			RentalRate: row.RentalRate,
			StaffName:  fullName(row.StaffFirstName, row.StaffLastName),
		}
	}
	return out, nil
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) rental.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) ExistsForRental(ctx context.Context, rentalID int64) (bool, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&PaymentModel{}).Where("rental_id = ?", rentalID).Count(&n).Error; err != nil {
		return false, translate(err, "check payment")
	}
	return n > 0, nil
}

// Create relies on ON CONFLICT DO NOTHING (ON DUPLICATE KEY no-op on MySQL)
// so a concurrent duplicate is skipped instead of failing.
func (r *paymentRepository) Create(ctx context.Context, p *rental.Payment) (bool, error) {
	model := &PaymentModel{
		CustomerID:  p.CustomerID,
		StaffID:     p.StaffID,
		RentalID:    p.RentalID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
	}
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if res.Error != nil {
		return false, translate(res.Error, "record payment")
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	p.ID = model.PaymentID
	return true, nil
}

func (r *paymentRepository) DeleteByRental(ctx context.Context, rentalID int64) (int64, error) {
	res := conn(ctx, r.db).Where("rental_id = ?", rentalID).Delete(&PaymentModel{})
	if res.Error != nil {
		return 0, translate(res.Error, "delete payments")
	}
	return res.RowsAffected, nil
}
