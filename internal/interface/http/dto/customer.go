package dto

import (
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/domain/money"
)

type ListCustomersQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type CustomerItem struct {
	CustomerID    int64     `json:"customer_id" example:"1"`
	Name          string    `json:"name" example:"MARY SMITH"`
	Email         string    `json:"email" example:"MARY.SMITH@sakilacustomer.org"`
	Active        bool      `json:"active" example:"true"`
	CreateDate    time.Time `json:"create_date"`
	Address       string    `json:"address" example:"1913 Hanoi Way"`
	City          string    `json:"city" example:"Sasebo"`
	Country       string    `json:"country" example:"Japan"`
	TotalRentals  int64     `json:"total_rentals" example:"32"`
	ActiveRentals int64     `json:"active_rentals" example:"0"`
}

func NewCustomerList(items []customer.Customer) []CustomerItem {
	out := make([]CustomerItem, len(items))
	for i, c := range items {
		out[i] = CustomerItem{
			CustomerID:    c.ID,
			Name:          c.Name,
			Email:         c.Email,
			Active:        c.Active,
			CreateDate:    c.CreateDate,
			Address:       c.Address.Address,
			City:          c.Address.City,
			Country:       c.Address.Country,
			TotalRentals:  c.TotalRentals,
			ActiveRentals: c.ActiveRentals,
		}
	}
	return out
}

type CustomerDetailResponse struct {
	CustomerID    int64        `json:"customer_id"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Email         string       `json:"email"`
	Active        bool         `json:"active"`
	CreateDate    time.Time    `json:"create_date"`
	Address       string       `json:"address"`
	Phone         string       `json:"phone"`
	City          string       `json:"city"`
	Country       string       `json:"country"`
	StoreID       int64        `json:"store_id"`
	TotalRentals  int64        `json:"total_rentals"`
	ActiveRentals int64        `json:"active_rentals"`
	TotalSpent    money.Amount `json:"total_spent" swaggertype:"string" example:"118.68"`
}

func NewCustomerDetailResponse(d *customer.Detail) CustomerDetailResponse {
	return CustomerDetailResponse{
		CustomerID:    d.ID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Active:        d.Active,
		CreateDate:    d.CreateDate,
		Address:       d.Address.Address,
		Phone:         d.Phone,
		City:          d.Address.City,
		Country:       d.Address.Country,
		StoreID:       d.StoreID,
		TotalRentals:  d.TotalRentals,
		ActiveRentals: d.ActiveRentals,
		TotalSpent:    d.TotalSpent,
	}
}

type CustomerMatch struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Active     bool   `json:"active"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

func NewCustomerMatches(items []customer.Match) []CustomerMatch {
	out := make([]CustomerMatch, len(items))
	for i, m := range items {
		out[i] = CustomerMatch{
			CustomerID: m.ID,
			Name:       m.Name,
			Email:      m.Email,
			Active:     m.Active,
			Address:    m.Address.Address,
			City:       m.Address.City,
			Country:    m.Address.Country,
		}
	}
	return out
}
