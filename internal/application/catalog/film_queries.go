// Package catalog serves film lookups.
package catalog

import (
	"context"

	"github.com/xiebiao/dvdrental/internal/domain/catalog"
	"github.com/xiebiao/dvdrental/internal/domain/paging"
	"github.com/xiebiao/dvdrental/internal/domain/search"
)

type FilmQueriesUseCase struct {
	films catalog.Repository
}

func NewFilmQueriesUseCase(films catalog.Repository) *FilmQueriesUseCase {
	return &FilmQueriesUseCase{films: films}
}

type ListFilmsRequest struct {
	Page          int
	Limit         int
	Category      string
	Rating        string
	AvailableOnly bool
}

func (uc *FilmQueriesUseCase) List(ctx context.Context, req ListFilmsRequest) (*paging.Page[catalog.Film], paging.Request, error) {
	pr := paging.New(req.Page, req.Limit)
	if !catalog.ValidRating(req.Rating) {
		return nil, pr, catalog.ErrInvalidRating
	}

	films, total, err := uc.films.List(ctx, catalog.ListFilter{
		Category:      req.Category,
		Rating:        req.Rating,
		AvailableOnly: req.AvailableOnly,
		Offset:        pr.Offset(),
		Limit:         pr.Limit,
	})
	if err != nil {
		return nil, pr, err
	}
	return &paging.Page[catalog.Film]{Items: films, Total: total}, pr, nil
}

func (uc *FilmQueriesUseCase) Get(ctx context.Context, id int64) (*catalog.FilmDetail, error) {
	return uc.films.FindByID(ctx, id)
}

// Search matches title or description. The trimmed query is returned for echoing.
func (uc *FilmQueriesUseCase) Search(ctx context.Context, q, category, rating string) ([]catalog.Film, string, error) {
	term, err := search.Term(q)
	if err != nil {
		return nil, "", err
	}
	if !catalog.ValidRating(rating) {
		return nil, term, catalog.ErrInvalidRating
	}
	films, err := uc.films.Search(ctx, catalog.SearchFilter{Query: term, Category: category, Rating: rating}, search.MaxResults)
	if err != nil {
		return nil, term, err
	}
	return films, term, nil
}

// Available lists films with a free unit. A non-positive limit uses the default.
func (uc *FilmQueriesUseCase) Available(ctx context.Context, limit int) ([]catalog.AvailableFilm, error) {
	if limit <= 0 {
		limit = catalog.DefaultAvailableLimit
	}
	if limit > paging.MaxLimit {
		limit = paging.MaxLimit
	}
	return uc.films.ListAvailable(ctx, limit)
}

func (uc *FilmQueriesUseCase) Categories(ctx context.Context) ([]catalog.Category, error) {
	return uc.films.Categories(ctx)
}
