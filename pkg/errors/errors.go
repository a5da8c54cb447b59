// Package errors defines the application error type shared by every layer.
//
// Domain packages declare their sentinel errors with New* constructors, the
// persistence layer wraps driver failures with Constraint/Connection, and the
// HTTP boundary turns the Kind into a status code.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError for the boundary layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConstraint
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConstraint:
		return "constraint"
	case KindConnection:
		return "connection"
	default:
		return "internal"
	}
}

// AppError is the error type surfaced by use cases.
// Err carries the underlying cause and is reported as the "error" detail of
// the response; Details carries structured context (e.g. an existing return_date).
type AppError struct {
	Kind    Kind           `json:"-"`
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by identity fields so that a copy produced by
// WithDetails or WithCause still satisfies errors.Is against the original.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind && e.Message == t.Message
}

// WithDetails returns a copy of e carrying the given details.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause returns a copy of e wrapping err.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// Error codes. 4xxxx are client-side, 5xxxx server-side.
const (
	ErrCodeInternal   = 50000
	ErrCodeConstraint = 50001
	ErrCodeConnection = 50002
	ErrCodeRedisError = 50003

	ErrCodeNotFound         = 40400
	ErrCodeRentalNotFound   = 40401
	ErrCodeFilmNotFound     = 40402
	ErrCodeCustomerNotFound = 40403

	ErrCodeConflict        = 40000
	ErrCodeAlreadyRented   = 40001
	ErrCodeAlreadyReturned = 40002
	ErrCodeRequestInFlight = 40003

	ErrCodeInvalidParams = 40900
	ErrCodeBindError     = 40901
	ErrCodeEmptyQuery    = 40902
)

// New creates an internal error with an explicit code.
func New(code int, message string) *AppError {
	return &AppError{Kind: KindInternal, Code: code, Message: message}
}

func NewValidation(code int, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

func NewNotFound(code int, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func NewConflict(code int, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

// Validation builds an ad-hoc validation error from a formatted message.
func Validation(format string, args ...any) *AppError {
	return NewValidation(ErrCodeInvalidParams, fmt.Sprintf(format, args...))
}

// Constraint wraps a schema constraint violation reported by the store.
func Constraint(err error, message string) *AppError {
	return &AppError{Kind: KindConstraint, Code: ErrCodeConstraint, Message: message, Err: err}
}

// Connection wraps a failure to reach the store.
func Connection(err error, message string) *AppError {
	return &AppError{Kind: KindConnection, Code: ErrCodeConnection, Message: message, Err: err}
}

// Wrap turns a system error into an internal AppError.
func Wrap(err error, message string) *AppError {
	return &AppError{Kind: KindInternal, Code: ErrCodeInternal, Message: message, Err: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

var (
	ErrInternal      = New(ErrCodeInternal, "internal server error")
	ErrInvalidParams = NewValidation(ErrCodeInvalidParams, "invalid parameters")
	ErrBindError     = NewValidation(ErrCodeBindError, "malformed request")
	ErrEmptyQuery    = NewValidation(ErrCodeEmptyQuery, `search parameter "q" is required`)
	ErrInFlight      = NewConflict(ErrCodeRequestInFlight, "a request with this idempotency key is still being processed")
	ErrRedisError    = New(ErrCodeRedisError, "cache service error")
)

// IsAppError reports whether err is or wraps an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the AppError from err, wrapping anything else as internal.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}

// KindOf returns the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
