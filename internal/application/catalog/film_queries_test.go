package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/dvdrental/internal/domain/catalog"
	"github.com/xiebiao/dvdrental/internal/domain/search"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

type mockFilms struct {
	mock.Mock
}

func (m *mockFilms) List(ctx context.Context, f catalog.ListFilter) ([]catalog.Film, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]catalog.Film), args.Get(1).(int64), args.Error(2)
}

func (m *mockFilms) FindByID(ctx context.Context, id int64) (*catalog.FilmDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*catalog.FilmDetail)
	return d, args.Error(1)
}

func (m *mockFilms) Search(ctx context.Context, f catalog.SearchFilter, limit int) ([]catalog.Film, error) {
	args := m.Called(ctx, f, limit)
	return args.Get(0).([]catalog.Film), args.Error(1)
}

func (m *mockFilms) ListAvailable(ctx context.Context, limit int) ([]catalog.AvailableFilm, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.AvailableFilm), args.Error(1)
}

func (m *mockFilms) Categories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func TestFilmQueries_ListPaging(t *testing.T) {
	films := new(mockFilms)
	films.On("List", mock.Anything, catalog.ListFilter{Category: "Action", AvailableOnly: true, Offset: 100, Limit: 100}).
		Return([]catalog.Film{{ID: 1}}, int64(150), nil)

	page, pr, err := NewFilmQueriesUseCase(films).List(context.Background(), ListFilmsRequest{
		Page: 2, Limit: 500, Category: "Action", AvailableOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, pr.Limit)
	assert.Equal(t, int64(150), page.Total)
	films.AssertExpectations(t)
}

func TestFilmQueries_UnknownRating(t *testing.T) {
	films := new(mockFilms)
	_, _, err := NewFilmQueriesUseCase(films).List(context.Background(), ListFilmsRequest{Rating: "X"})
	assert.ErrorIs(t, err, catalog.ErrInvalidRating)
	films.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestFilmQueries_Search(t *testing.T) {
	films := new(mockFilms)
	films.On("Search", mock.Anything, catalog.SearchFilter{Query: "dinosaur", Rating: "PG"}, search.MaxResults).
		Return([]catalog.Film{{ID: 1, Title: "ACADEMY DINOSAUR"}}, nil)
	uc := NewFilmQueriesUseCase(films)

	got, term, err := uc.Search(context.Background(), "  dinosaur ", "", "PG")
	require.NoError(t, err)
	assert.Equal(t, "dinosaur", term)
	assert.Len(t, got, 1)

	_, _, err = uc.Search(context.Background(), "   ", "", "")
	assert.ErrorIs(t, err, apperrors.ErrEmptyQuery)
	films.AssertNumberOfCalls(t, "Search", 1)
}

func TestFilmQueries_AvailableLimit(t *testing.T) {
	films := new(mockFilms)
	films.On("ListAvailable", mock.Anything, catalog.DefaultAvailableLimit).Return([]catalog.AvailableFilm{}, nil).Once()
	films.On("ListAvailable", mock.Anything, 5).Return([]catalog.AvailableFilm{}, nil).Once()
	uc := NewFilmQueriesUseCase(films)

	_, err := uc.Available(context.Background(), 0)
	require.NoError(t, err)
	_, err = uc.Available(context.Background(), 5)
	require.NoError(t, err)
	films.AssertExpectations(t)
}
