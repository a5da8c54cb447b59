package catalog

import (
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

var (
	ErrFilmNotFound = apperrors.NewNotFound(apperrors.ErrCodeFilmNotFound, "film not found")

	ErrInvalidRating = apperrors.NewValidation(apperrors.ErrCodeInvalidParams, "rating must be one of G, PG, PG-13, R, NC-17")
)
