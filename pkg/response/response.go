package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/dvdrental/internal/domain/paging"
	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
	"github.com/xiebiao/dvdrental/pkg/logging"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Query      *string        `json:"query,omitempty"`
	Data       any            `json:"data,omitempty"`
	Total      *int           `json:"total,omitempty"`
	Pagination *Pagination    `json:"pagination,omitempty"`
	Error      string         `json:"error,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: paging.Pages(total, limit)}
}

// Success writes 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessWithMessage writes the given status with a message and data.
func SuccessWithMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// SuccessWithPage writes a paginated listing.
func SuccessWithPage(c *gin.Context, data any, p *Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: p})
}

// SuccessWithTotal writes an unpaginated listing with its row count.
func SuccessWithTotal(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Total: &total})
}

// SuccessSearch writes a search result echoing the query.
func SuccessSearch(c *gin.Context, query string, data any, total int) {
	c.JSON(http.StatusOK, Response{Success: true, Query: &query, Data: data, Total: &total})
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error maps err onto a status code and writes the error envelope.
// Server-side failures are logged with the request-scoped logger.
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := StatusFor(appErr.Kind)

	log := logging.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", appErr.Kind.String()).Int("code", appErr.Code).
			Str("path", c.FullPath()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("kind", appErr.Kind.String()).Msg("request rejected")
	}

	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Message: appErr.Message,
		Error:   detail(appErr),
		Details: appErr.Details,
	})
}

// ErrorWithStatus writes an error envelope with an explicit status.
func ErrorWithStatus(c *gin.Context, status int, message string, err error) {
	body := Response{Success: false, Message: message, Error: message}
	if err != nil {
		body.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

func detail(e *apperrors.AppError) string {
	if e.Err == nil {
		return e.Message
	}
	var inner *apperrors.AppError
	if errors.As(e.Err, &inner) && inner != e {
		return detail(inner)
	}
	return e.Err.Error()
}
