package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func bindError(err error) error {
	return apperrors.ErrBindError.WithCause(err)
}
