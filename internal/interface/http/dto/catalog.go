package dto

import (
	"github.com/xiebiao/dvdrental/internal/domain/catalog"
	"github.com/xiebiao/dvdrental/internal/domain/money"
)

// ListFilmsQuery binds GET /api/films. Only available=true filters.
type ListFilmsQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
	Category  string `form:"category" example:"Action"`
	Rating    string `form:"rating" example:"PG-13"`
	Available string `form:"available" example:"true"`
}

type SearchFilmsQuery struct {
	Q        string `form:"q" example:"dinosaur"`
	Category string `form:"category"`
	Rating   string `form:"rating"`
}

type FilmItem struct {
	FilmID          int64        `json:"film_id" example:"1"`
	Title           string       `json:"title" example:"ACADEMY DINOSAUR"`
	Description     string       `json:"description"`
	ReleaseYear     int          `json:"release_year" example:"2006"`
	RentalRate      money.Amount `json:"rental_rate" swaggertype:"string" example:"0.99"`
	DurationMinutes int          `json:"duration_minutes" example:"86"`
	Rating          string       `json:"rating" example:"PG"`
	Category        string       `json:"category" example:"Documentary"`
	TotalCopies     int64        `json:"total_copies" example:"8"`
	AvailableCopies int64        `json:"available_copies" example:"7"`
}

func newFilmItem(f catalog.Film) FilmItem {
	return FilmItem{
		FilmID:          f.ID,
		Title:           f.Title,
		Description:     f.Description,
		ReleaseYear:     f.ReleaseYear,
		RentalRate:      f.RentalRate,
		DurationMinutes: f.DurationMinutes,
		Rating:          f.Rating,
		Category:        f.Category,
		TotalCopies:     f.TotalCopies,
		AvailableCopies: f.AvailableCopies,
	}
}

func NewFilmList(films []catalog.Film) []FilmItem {
	out := make([]FilmItem, len(films))
	for i, f := range films {
		out[i] = newFilmItem(f)
	}
	return out
}

type FilmDetailResponse struct {
	FilmItem
	SpecialFeatures []string `json:"special_features" example:"Trailers,Deleted Scenes"`
	Language        string   `json:"language" example:"English"`
	TimesRented     int64    `json:"times_rented" example:"23"`
}

func NewFilmDetailResponse(d *catalog.FilmDetail) FilmDetailResponse {
	return FilmDetailResponse{
		FilmItem:        newFilmItem(d.Film),
		SpecialFeatures: d.SpecialFeatures,
		Language:        d.Language,
		TimesRented:     d.TimesRented,
	}
}

type AvailableFilmItem struct {
	FilmID          int64        `json:"film_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	RentalRate      money.Amount `json:"rental_rate" swaggertype:"string" example:"0.99"`
	Rating          string       `json:"rating"`
	Category        string       `json:"category"`
	AvailableCopies int64        `json:"available_copies"`
}

func NewAvailableFilmList(films []catalog.AvailableFilm) []AvailableFilmItem {
	out := make([]AvailableFilmItem, len(films))
	for i, f := range films {
		out[i] = AvailableFilmItem{
			FilmID:          f.ID,
			Title:           f.Title,
			Description:     f.Description,
			RentalRate:      f.RentalRate,
			Rating:          f.Rating,
			Category:        f.Category,
			AvailableCopies: f.AvailableCopies,
		}
	}
	return out
}

type CategoryItem struct {
	CategoryID int64  `json:"category_id" example:"1"`
	Name       string `json:"name" example:"Action"`
	FilmCount  int64  `json:"film_count" example:"64"`
}

func NewCategoryList(cats []catalog.Category) []CategoryItem {
	out := make([]CategoryItem, len(cats))
	for i, c := range cats {
		out[i] = CategoryItem{CategoryID: c.ID, Name: c.Name, FilmCount: c.FilmCount}
	}
	return out
}
