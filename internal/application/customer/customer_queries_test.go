package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/dvdrental/internal/domain/customer"
	"github.com/xiebiao/dvdrental/internal/domain/search"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

type mockCustomers struct {
	mock.Mock
}

func (m *mockCustomers) List(ctx context.Context, f customer.ListFilter) ([]customer.Customer, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]customer.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *mockCustomers) FindByID(ctx context.Context, id int64) (*customer.Detail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*customer.Detail)
	return d, args.Error(1)
}

func (m *mockCustomers) Search(ctx context.Context, q string, limit int) ([]customer.Match, error) {
	args := m.Called(ctx, q, limit)
	return args.Get(0).([]customer.Match), args.Error(1)
}

func TestCustomerQueries_List(t *testing.T) {
	repo := new(mockCustomers)
	active := customer.ParseActive("true", true)
	repo.On("List", mock.Anything, customer.ListFilter{Active: active, Offset: 0, Limit: 20}).
		Return([]customer.Customer{{ID: 1, Name: "MARY SMITH", Active: true}}, int64(584), nil)

	page, pr, err := NewCustomerQueriesUseCase(repo).List(context.Background(), ListCustomersRequest{Active: active})
	require.NoError(t, err)
	assert.Equal(t, 1, pr.Page)
	assert.Equal(t, int64(584), page.Total)
}

func TestCustomerQueries_GetNotFound(t *testing.T) {
	repo := new(mockCustomers)
	repo.On("FindByID", mock.Anything, int64(404)).Return(nil, customer.ErrCustomerNotFound)

	_, err := NewCustomerQueriesUseCase(repo).Get(context.Background(), 404)
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestCustomerQueries_Search(t *testing.T) {
	repo := new(mockCustomers)
	repo.On("Search", mock.Anything, "smith", search.MaxResults).
		Return([]customer.Match{{ID: 1, Name: "MARY SMITH"}}, nil)
	uc := NewCustomerQueriesUseCase(repo)

	got, term, err := uc.Search(context.Background(), "smith")
	require.NoError(t, err)
	assert.Equal(t, "smith", term)
	assert.Len(t, got, 1)

	_, _, err = uc.Search(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrEmptyQuery)
	repo.AssertNumberOfCalls(t, "Search", 1)
}
