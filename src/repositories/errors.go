package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates no row matched the lookup
	ErrNotFound = errors.New("record not found")

	// ErrUniqueViolation indicates an insert collided with a unique index
	ErrUniqueViolation = errors.New("unique constraint violation")
)

const pgUniqueViolation = "23505"

// translateError maps driver errors onto the repository sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

// ConstraintError carries the name of the violated unique constraint
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return "unique constraint " + e.Constraint + " violated"
}

// Is lets callers match the error with ErrUniqueViolation
func (e *ConstraintError) Is(target error) bool {
	return target == ErrUniqueViolation
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
