package dto

import (
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
)

// CreateRentalRequest is the body of POST /api/rentals. Missing ids decode
// as zero and are rejected by the use case with one message.
type CreateRentalRequest struct {
	CustomerID  int64 `json:"customer_id" example:"1"`
	InventoryID int64 `json:"inventory_id" example:"367"`
	StaffID     int64 `json:"staff_id" example:"1"`
}

// ListRentalsQuery binds GET /api/rentals.
type ListRentalsQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1" example:"20"`
	Status string `form:"status" example:"active"`
}

// RentalCreatedResponse is the joined row returned after a rental is opened.
type RentalCreatedResponse struct {
	RentalID     int64      `json:"rental_id" example:"16050"`
	RentalDate   time.Time  `json:"rental_date"`
	ReturnDate   *time.Time `json:"return_date"`
	CustomerName string     `json:"customer_name" example:"MARY SMITH"`
	FilmTitle    string     `json:"film_title" example:"ACADEMY DINOSAUR"`
	StaffName    string     `json:"staff_name" example:"Mike Hillyer"`
}

func NewRentalCreatedResponse(d *rental.Detail) RentalCreatedResponse {
	return RentalCreatedResponse{
		RentalID:     d.RentalID,
		RentalDate:   d.RentalDate,
		ReturnDate:   d.ReturnDate,
		CustomerName: d.CustomerName,
		FilmTitle:    d.FilmTitle,
		StaffName:    d.StaffName,
	}
}

type RentalListItem struct {
	RentalID     int64      `json:"rental_id"`
	RentalDate   time.Time  `json:"rental_date"`
	ReturnDate   *time.Time `json:"return_date"`
	CustomerID   int64      `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	FilmID       int64      `json:"film_id"`
	FilmTitle    string     `json:"film_title"`
	StaffID      int64      `json:"staff_id"`
	StaffName    string     `json:"staff_name"`
	Status       string     `json:"status" example:"Activa"`
}

func NewRentalList(items []rental.Summary) []RentalListItem {
	out := make([]RentalListItem, len(items))
	for i, s := range items {
		out[i] = RentalListItem{
			RentalID:     s.RentalID,
			RentalDate:   s.RentalDate,
			ReturnDate:   s.ReturnDate,
			CustomerID:   s.CustomerID,
			CustomerName: s.CustomerName,
			FilmID:       s.FilmID,
			FilmTitle:    s.FilmTitle,
			StaffID:      s.StaffID,
			StaffName:    s.StaffName,
			Status:       s.Status().Label(),
		}
	}
	return out
}

type RentalDetailResponse struct {
	RentalID        int64        `json:"rental_id"`
	RentalDate      time.Time    `json:"rental_date"`
	ReturnDate      *time.Time   `json:"return_date"`
	InventoryID     int64        `json:"inventory_id"`
	CustomerID      int64        `json:"customer_id"`
	CustomerName    string       `json:"customer_name"`
	CustomerEmail   string       `json:"customer_email"`
	FilmID          int64        `json:"film_id"`
	FilmTitle       string       `json:"film_title"`
	FilmDescription string       `json:"film_description"`
	RentalRate      money.Amount `json:"rental_rate" swaggertype:"string" example:"0.99"`
	StaffID         int64        `json:"staff_id"`
	StaffName       string       `json:"staff_name"`
}

func NewRentalDetailResponse(d *rental.Detail) RentalDetailResponse {
	return RentalDetailResponse{
		RentalID:        d.RentalID,
		RentalDate:      d.RentalDate,
		ReturnDate:      d.ReturnDate,
		InventoryID:     d.InventoryID,
		CustomerID:      d.CustomerID,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		FilmID:          d.FilmID,
		FilmTitle:       d.FilmTitle,
		FilmDescription: d.FilmDescription,
		RentalRate:      d.RentalRate,
		StaffID:         d.StaffID,
		StaffName:       d.StaffName,
	}
}

type PaymentResponse struct {
	PaymentID   int64        `json:"payment_id"`
	CustomerID  int64        `json:"customer_id"`
	StaffID     int64        `json:"staff_id"`
	RentalID    int64        `json:"rental_id"`
	Amount      money.Amount `json:"amount" swaggertype:"string" example:"0.99"`
	PaymentDate time.Time    `json:"payment_date"`
}

// ReturnResponse carries a null payment when the rental was already billed.
type ReturnResponse struct {
	RentalID   int64            `json:"rental_id"`
	ReturnDate time.Time        `json:"return_date"`
	Payment    *PaymentResponse `json:"payment"`
}

func NewReturnResponse(r *rental.ReturnResult) ReturnResponse {
	resp := ReturnResponse{RentalID: r.RentalID, ReturnDate: r.ReturnDate}
	if p := r.Payment; p != nil {
		resp.Payment = &PaymentResponse{
			PaymentID:   p.ID,
			CustomerID:  p.CustomerID,
			StaffID:     p.StaffID,
			RentalID:    p.RentalID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
		}
	}
	return resp
}

type CancelResponse struct {
	RentalID    int64     `json:"rental_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type CustomerRentalItem struct {
	RentalID   int64        `json:"rental_id"`
	RentalDate time.Time    `json:"rental_date"`
	ReturnDate *time.Time   `json:"return_date"`
	FilmTitle  string       `json:"film_title"`
	RentalRate money.Amount `json:"rental_rate" swaggertype:"string" example:"2.99"`
	StaffName  string       `json:"staff_name"`
	Status     string       `json:"status" example:"Devuelta"`
}

func NewCustomerRentalList(items []rental.CustomerRental) []CustomerRentalItem {
	out := make([]CustomerRentalItem, len(items))
	for i, r := range items {
		out[i] = CustomerRentalItem{
			RentalID:   r.RentalID,
			RentalDate: r.RentalDate,
			ReturnDate: r.ReturnDate,
			FilmTitle:  r.FilmTitle,
			RentalRate: r.RentalRate,
			StaffName:  r.StaffName,
			Status:     r.Status().Label(),
		}
	}
	return out
}
