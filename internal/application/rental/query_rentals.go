package rental

import (
	"context"

	"github.com/xiebiao/dvdrental/internal/domain/paging"
	"github.com/xiebiao/dvdrental/internal/domain/rental"
)

// QueryRentalsUseCase serves the read side of rentals.
type QueryRentalsUseCase struct {
	rentals rental.Repository
}

func NewQueryRentalsUseCase(rentals rental.Repository) *QueryRentalsUseCase {
	return &QueryRentalsUseCase{rentals: rentals}
}

type ListRentalsRequest struct {
	Page   int
	Limit  int
	Status string
}

// List returns one page of rentals, newest first. An unknown status is a
// validation error and nothing is queried.
func (uc *QueryRentalsUseCase) List(ctx context.Context, req ListRentalsRequest) (*paging.Page[rental.Summary], paging.Request, error) {
	pr := paging.New(req.Page, req.Limit)
	status, err := rental.ParseStatus(req.Status)
	if err != nil {
		return nil, pr, err
	}

	items, total, err := uc.rentals.List(ctx, rental.ListFilter{
		Status: status,
		Offset: pr.Offset(),
		Limit:  pr.Limit,
	})
	if err != nil {
		return nil, pr, err
	}
	return &paging.Page[rental.Summary]{Items: items, Total: total}, pr, nil
}

func (uc *QueryRentalsUseCase) Get(ctx context.Context, id int64) (*rental.Detail, error) {
	return uc.rentals.FindDetail(ctx, id)
}

// ByCustomer returns the customer's whole history, newest first.
func (uc *QueryRentalsUseCase) ByCustomer(ctx context.Context, customerID int64) ([]rental.CustomerRental, error) {
	return uc.rentals.ListByCustomer(ctx, customerID)
}
