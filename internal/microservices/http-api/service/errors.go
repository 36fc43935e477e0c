package service

import (
	"net/http"

	"yamdb/pkg/apperror"
)

// Domain errors returned by the services. They are *apperror.AppError values,
// so handlers map them to a status without knowing the service.
var (
	ErrDuplicateUsername       = apperror.Duplicate("username", "a user with that username already exists")
	ErrDuplicateEmail          = apperror.Duplicate("email", "a user with that email already exists")
	ErrUserNotFound            = apperror.NotFound("user not found")
	ErrInvalidConfirmationCode = apperror.Validation("confirmation_code", "invalid confirmation code")
	ErrCodeThrottled           = apperror.New(http.StatusTooManyRequests, "a confirmation code was sent recently, try again later", apperror.ErrRateLimited)
	ErrInvalidToken            = apperror.New(http.StatusUnauthorized, "invalid or expired token", apperror.ErrUnauthenticated)

	ErrCategoryNotFound  = apperror.NotFound("category not found")
	ErrDuplicateCategory = apperror.Duplicate("slug", "a category with this slug already exists")
	ErrUnknownCategory   = apperror.Validation("category", "category with this slug does not exist")

	ErrGenreNotFound  = apperror.NotFound("genre not found")
	ErrDuplicateGenre = apperror.Duplicate("slug", "a genre with this slug already exists")
	ErrUnknownGenre   = apperror.Validation("genre", "genre with this slug does not exist")

	ErrTitleNotFound  = apperror.NotFound("title not found")
	ErrDuplicateTitle = apperror.Duplicate("name", "a title with this name already exists in this category")

	ErrReviewNotFound  = apperror.NotFound("review not found")
	ErrDuplicateReview = apperror.Duplicate("", "you have already reviewed this title")

	ErrCommentNotFound = apperror.NotFound("comment not found")
)

func required(field string) error {
	return apperror.Validation(field, field+" is required")
}
