package catalog

import "context"

// Repository reads the film catalog. Copy counts are computed per call.
type Repository interface {
	// List returns films ordered by title and the total matching every filter.
	List(ctx context.Context, filter ListFilter) ([]Film, int64, error)

	// FindByID returns ErrFilmNotFound when the film does not exist.
	FindByID(ctx context.Context, id int64) (*FilmDetail, error)

	// Search matches title or description, case-insensitively, up to limit rows.
	Search(ctx context.Context, filter SearchFilter, limit int) ([]Film, error)

	ListAvailable(ctx context.Context, limit int) ([]AvailableFilm, error)

	Categories(ctx context.Context) ([]Category, error)
}
