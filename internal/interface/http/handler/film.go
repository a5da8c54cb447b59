package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/dvdrental/internal/application/catalog"
	"github.com/xiebiao/dvdrental/internal/interface/http/dto"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
	"github.com/xiebiao/dvdrental/pkg/response"
)

type FilmHandler struct {
	films *appcatalog.FilmQueriesUseCase
}

func NewFilmHandler(films *appcatalog.FilmQueriesUseCase) *FilmHandler {
	return &FilmHandler{films: films}
}

// List pages through the catalog ordered by title.
// @Summary      List films
// @Tags         films
// @Produce      json
// @Param        page      query int    false "Page (1-based)" default(1)
// @Param        limit     query int    false "Page size, max 100" default(20)
// @Param        category  query string false "Category name"
// @Param        rating    query string false "MPAA rating" Enums(G, PG, PG-13, R, NC-17)
// @Param        available query string false "true keeps films with a free copy"
// @Success      200 {object} response.Response{data=[]dto.FilmItem}
// @Failure      400 {object} response.Response
// @Router       /api/films [get]
func (h *FilmHandler) List(c *gin.Context) {
	var q dto.ListFilmsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	page, pr, err := h.films.List(c.Request.Context(), appcatalog.ListFilmsRequest{
		Page:          q.Page,
		Limit:         q.Limit,
		Category:      q.Category,
		Rating:        q.Rating,
		AvailableOnly: q.Available == "true",
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewFilmList(page.Items), pagination(pr, page.Total))
}

// Get returns a film with its features, language and rental count.
// @Summary      Get film
// @Tags         films
// @Produce      json
// @Param        id path int true "Film id"
// @Success      200 {object} response.Response{data=dto.FilmDetailResponse}
// @Failure      404 {object} response.Response
// @Router       /api/films/{id} [get]
func (h *FilmHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	film, err := h.films.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewFilmDetailResponse(film))
}

// Search matches title or description.
// @Summary      Search films
// @Tags         films
// @Produce      json
// @Param        q        query string true  "Text to match"
// @Param        category query string false "Category name"
// @Param        rating   query string false "MPAA rating"
// @Success      200 {object} response.Response{data=[]dto.FilmItem}
// @Failure      400 {object} response.Response "Missing q"
// @Router       /api/films/search/query [get]
func (h *FilmHandler) Search(c *gin.Context) {
	var q dto.SearchFilmsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}
	films, term, err := h.films.Search(c.Request.Context(), q.Q, q.Category, q.Rating)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessSearch(c, term, dto.NewFilmList(films), len(films))
}

// Available lists films with at least one free copy.
// @Summary      Available films
// @Tags         films
// @Produce      json
// @Param        limit query int false "Max rows, capped at 100" default(50)
// @Success      200 {object} response.Response{data=[]dto.AvailableFilmItem}
// @Router       /api/films/available/list [get]
func (h *FilmHandler) Available(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, apperrors.Validation("limit must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}
	films, err := h.films.Available(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithTotal(c, dto.NewAvailableFilmList(films), len(films))
}

// Categories lists every category with its film count.
// @Summary      Categories
// @Tags         films
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.CategoryItem}
// @Router       /api/films/categories/list [get]
func (h *FilmHandler) Categories(c *gin.Context) {
	cats, err := h.films.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithTotal(c, dto.NewCategoryList(cats), len(cats))
}
