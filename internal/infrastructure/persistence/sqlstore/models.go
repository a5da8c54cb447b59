package sqlstore

import (
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
)

// The schema is owned by the rental store database; these models map the
// columns the service writes and locks, and are never auto-migrated.

type RentalModel struct {
	RentalID    int64      `gorm:"column:rental_id;primaryKey"`
	RentalDate  time.Time  `gorm:"column:rental_date"`
	InventoryID int64      `gorm:"column:inventory_id"`
	CustomerID  int64      `gorm:"column:customer_id"`
	ReturnDate  *time.Time `gorm:"column:return_date"`
	StaffID     int64      `gorm:"column:staff_id"`
	LastUpdate  time.Time  `gorm:"column:last_update"`
}

func (RentalModel) TableName() string { return "rental" }

type PaymentModel struct {
	PaymentID   int64        `gorm:"column:payment_id;primaryKey"`
	CustomerID  int64        `gorm:"column:customer_id"`
	StaffID     int64        `gorm:"column:staff_id"`
	RentalID    int64        `gorm:"column:rental_id"`
	Amount      money.Amount `gorm:"column:amount"`
	PaymentDate time.Time    `gorm:"column:payment_date"`
}

func (PaymentModel) TableName() string { return "payment" }

type InventoryModel struct {
	InventoryID int64 `gorm:"column:inventory_id;primaryKey"`
	FilmID      int64 `gorm:"column:film_id"`
	StoreID     int64 `gorm:"column:store_id"`
}

func (InventoryModel) TableName() string { return "inventory" }

func toRentalModel(r *rental.Rental) *RentalModel {
	return &RentalModel{
		RentalID:    r.ID,
		RentalDate:  r.RentalDate,
		InventoryID: r.InventoryID,
		CustomerID:  r.CustomerID,
		ReturnDate:  r.ReturnDate,
		StaffID:     r.StaffID,
		LastUpdate:  r.LastUpdate,
	}
}

func toRentalEntity(m *RentalModel) *rental.Rental {
	return &rental.Rental{
		ID:          m.RentalID,
		RentalDate:  m.RentalDate,
		InventoryID: m.InventoryID,
		CustomerID:  m.CustomerID,
		StaffID:     m.StaffID,
		ReturnDate:  m.ReturnDate,
		LastUpdate:  m.LastUpdate,
	}
}

// fullName joins first and last name in Go so no dialect-specific
// concatenation operator is needed.
func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
