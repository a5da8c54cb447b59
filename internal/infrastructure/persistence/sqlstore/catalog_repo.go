package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/dvdrental/internal/domain/catalog"
	"github.com/xiebiao/dvdrental/internal/domain/money"
)

const filmColumns = `f.film_id, f.title, COALESCE(f.description, '') AS description,
	COALESCE(f.release_year, 0) AS release_year, f.rental_rate,
	COALESCE(f.length, 0) AS duration_minutes, f.rating, COALESCE(c.name, '') AS category,
	COUNT(DISTINCT i.inventory_id) AS total_copies,
	COUNT(DISTINCT CASE WHEN r.rental_id IS NOT NULL THEN i.inventory_id END) AS rented_copies`

const filmGroupBy = "f.film_id, f.title, f.description, f.release_year, f.rental_rate, f.length, f.rating, c.name"

// hasFreeCopy keeps films with at least one unit lacking an open rental.
const hasFreeCopy = "COUNT(DISTINCT i.inventory_id) - COUNT(DISTINCT CASE WHEN r.rental_id IS NOT NULL THEN i.inventory_id END) > 0"

type filmRow struct {
	FilmID          int64
	Title           string
	Description     string
	ReleaseYear     int
	RentalRate      money.Amount
	DurationMinutes int
	Rating          string
	Category        string
	TotalCopies     int64
	RentedCopies    int64
}

func (row filmRow) toEntity() catalog.Film {
	return catalog.Film{
		ID:              row.FilmID,
		Title:           row.Title,
		Description:     row.Description,
		ReleaseYear:     row.ReleaseYear,
		RentalRate:      row.RentalRate,
		DurationMinutes: row.DurationMinutes,
		Rating:          row.Rating,
		Category:        row.Category,
		TotalCopies:     row.TotalCopies,
		AvailableCopies: row.TotalCopies - row.RentedCopies,
	}
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

// films is the grouped film query with copy counts. Only open rentals join,
// so rented_copies counts units currently out.
func (r *catalogRepository) films(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Table("film f").
		Select(filmColumns).
		Joins("LEFT JOIN film_category fc ON fc.film_id = f.film_id").
		Joins("LEFT JOIN category c ON c.category_id = fc.category_id").
		Joins("LEFT JOIN inventory i ON i.film_id = f.film_id").
		Joins("LEFT JOIN rental r ON r.inventory_id = i.inventory_id AND r.return_date IS NULL").
		Group(filmGroupBy)
}

func availableOnly(on bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !on {
			return db
		}
		return db.Having(hasFreeCopy)
	}
}

func (r *catalogRepository) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.Film, int64, error) {
	narrow := []func(*gorm.DB) *gorm.DB{
		categoryName(filter.Category),
		filmRating(filter.Rating),
		availableOnly(filter.AvailableOnly),
	}

	var total int64
	sub := r.films(ctx).Scopes(narrow...)
	if err := conn(ctx, r.db).Table("(?) AS sub", sub).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count films")
	}

	var rows []filmRow
	err := r.films(ctx).Scopes(narrow...).
		Scopes(paginate(filter.Offset, filter.Limit)).
		Order("f.title ASC, f.film_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "list films")
	}

	out := make([]catalog.Film, len(rows))
	for i, row := range rows {
		out[i] = row.toEntity()
	}
	return out, total, nil
}

type filmDetailRow struct {
	filmRow
	SpecialFeatures string
	Language        string
	TimesRented     int64
}

func (r *catalogRepository) FindByID(ctx context.Context, id int64) (*catalog.FilmDetail, error) {
	db := conn(ctx, r.db)
	var rows []filmDetailRow
	err := db.Table("film f").
		Select(filmColumns+`, `+specialFeaturesExpr(db)+` AS special_features,
			COALESCE(TRIM(l.name), '') AS language,
			COUNT(DISTINCT ra.rental_id) AS times_rented`).
		Joins("LEFT JOIN film_category fc ON fc.film_id = f.film_id").
		Joins("LEFT JOIN category c ON c.category_id = fc.category_id").
		Joins("LEFT JOIN language l ON l.language_id = f.language_id").
		Joins("LEFT JOIN inventory i ON i.film_id = f.film_id").
		Joins("LEFT JOIN rental r ON r.inventory_id = i.inventory_id AND r.return_date IS NULL").
		Joins("LEFT JOIN rental ra ON ra.inventory_id = i.inventory_id").
		Where("f.film_id = ?", id).
		Group(filmGroupBy + ", f.special_features, l.name").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load film")
	}
	if len(rows) == 0 {
		return nil, catalog.ErrFilmNotFound
	}
	row := rows[0]
	return &catalog.FilmDetail{
		Film:            row.toEntity(),
		SpecialFeatures: catalog.ParseSpecialFeatures(row.SpecialFeatures),
		Language:        row.Language,
		TimesRented:     row.TimesRented,
	}, nil
}

func (r *catalogRepository) Search(ctx context.Context, filter catalog.SearchFilter, limit int) ([]catalog.Film, error) {
	var rows []filmRow
	err := r.films(ctx).
		Scopes(
			containsAny(filter.Query, "f.title", "COALESCE(f.description, '')"),
			categoryName(filter.Category),
			filmRating(filter.Rating),
		).
		Order("f.title ASC, f.film_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "search films")
	}

	out := make([]catalog.Film, len(rows))
	for i, row := range rows {
		out[i] = row.toEntity()
	}
	return out, nil
}

func (r *catalogRepository) ListAvailable(ctx context.Context, limit int) ([]catalog.AvailableFilm, error) {
	var rows []filmRow
	err := r.films(ctx).
		Scopes(availableOnly(true)).
		Order("f.title ASC, f.film_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "list available films")
	}

	out := make([]catalog.AvailableFilm, len(rows))
	for i, row := range rows {
		out[i] = catalog.AvailableFilm{
			ID:              row.FilmID,
			Title:           row.Title,
			Description:     row.Description,
			RentalRate:      row.RentalRate,
			Rating:          row.Rating,
			Category:        row.Category,
			AvailableCopies: row.TotalCopies - row.RentedCopies,
		}
	}
	return out, nil
}

func (r *catalogRepository) Categories(ctx context.Context) ([]catalog.Category, error) {
	var rows []struct {
		CategoryID int64
		Name       string
		FilmCount  int64
	}
	err := conn(ctx, r.db).Table("category c").
		Select("c.category_id, c.name, COUNT(fc.film_id) AS film_count").
		Joins("LEFT JOIN film_category fc ON fc.category_id = c.category_id").
		Group("c.category_id, c.name").
		Order("c.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "list categories")
	}

	out := make([]catalog.Category, len(rows))
	for i, row := range rows {
		out[i] = catalog.Category{ID: row.CategoryID, Name: row.Name, FilmCount: row.FilmCount}
	}
	return out, nil
}
