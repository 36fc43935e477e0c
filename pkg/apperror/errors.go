package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrDuplicate        = errors.New("duplicate")
	ErrNotFound         = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthenticated  = errors.New("authentication credentials were not provided")
	ErrRateLimited      = errors.New("rate limit exceeded")
)

// AppError is a domain error with a human readable message. Err is one of the
// sentinel kinds above and decides the HTTP status.
type AppError struct {
	Code    int
	Field   string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a 400 error bound to a request field.
func Validation(field, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Field: field, Message: message, Err: ErrValidation}
}

// Duplicate builds a 400 uniqueness error bound to a request field.
func Duplicate(field, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Field: field, Message: message, Err: ErrDuplicate}
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, ErrNotFound)
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthenticated) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrPermissionDenied) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrDuplicate) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// FieldOf returns the request field an error is bound to, if any.
func FieldOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
