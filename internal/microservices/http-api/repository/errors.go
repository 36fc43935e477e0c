package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgres SQLSTATE codes we translate
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key value")
	ErrForeignKey = errors.New("referenced record does not exist")
	ErrStale      = errors.New("record changed concurrently")
)

// ConstraintError carries the name of the constraint postgres rejected.
type ConstraintError struct {
	Constraint string
	Err        error
	cause      error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v (%s): %v", e.Err, e.Constraint, e.cause)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsDuplicate reports whether err is a unique violation of constraint. An
// empty constraint matches any unique violation.
func IsDuplicate(err error, constraint string) bool {
	var cErr *ConstraintError
	if !errors.As(err, &cErr) || !errors.Is(cErr.Err, ErrDuplicate) {
		return false
	}
	return constraint == "" || cErr.Constraint == constraint
}

// translate maps driver and gorm errors onto repository errors and prefixes op.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, &ConstraintError{Constraint: pgErr.ConstraintName, Err: ErrDuplicate, cause: err})
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", op, &ConstraintError{Constraint: pgErr.ConstraintName, Err: ErrForeignKey, cause: err})
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
