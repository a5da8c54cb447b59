// Package customer serves customer lookups.
package customer

import (
	"context"

	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/domain/paging"
	"github.com/xiebiao/dvdrental/internal/domain/search"
)

type CustomerQueriesUseCase struct {
	customers customer.Repository
}

func NewCustomerQueriesUseCase(customers customer.Repository) *CustomerQueriesUseCase {
	return &CustomerQueriesUseCase{customers: customers}
}

type ListCustomersRequest struct {
	Page   int
	Limit  int
	Active customer.ActiveFilter
}

func (uc *CustomerQueriesUseCase) List(ctx context.Context, req ListCustomersRequest) (*paging.Page[customer.Customer], paging.Request, error) {
	pr := paging.New(req.Page, req.Limit)
	items, total, err := uc.customers.List(ctx, customer.ListFilter{
		Active: req.Active,
		Offset: pr.Offset(),
		Limit:  pr.Limit,
	})
	if err != nil {
		return nil, pr, err
	}
	return &paging.Page[customer.Customer]{Items: items, Total: total}, pr, nil
}

func (uc *CustomerQueriesUseCase) Get(ctx context.Context, id int64) (*customer.Detail, error) {
	return uc.customers.FindByID(ctx, id)
}

// Search matches name or email. The trimmed query is returned for echoing.
func (uc *CustomerQueriesUseCase) Search(ctx context.Context, q string) ([]customer.Match, string, error) {
	term, err := search.Term(q)
	if err != nil {
		return nil, "", err
	}
	matches, err := uc.customers.Search(ctx, term, search.MaxResults)
	if err != nil {
		return nil, term, err
	}
	return matches, term, nil
}
