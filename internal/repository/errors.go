package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("row not found")
	// ErrDuplicateUsername is returned when the users.username unique constraint fires.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateEmail is returned when the users.email unique constraint fires.
	ErrDuplicateEmail = errors.New("email already taken")
	// ErrReferenced is returned when a delete is blocked by rows referencing the target.
	ErrReferenced = errors.New("row is referenced by other rows")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateUserError maps Postgres constraint violations on the users table to
// repository sentinel errors. The constraints, not the service pre-checks, are the
// source of truth for uniqueness under concurrent registrations.
func translateUserError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pgUniqueViolation:
		if pqErr.Constraint == "users_email_key" {
			return ErrDuplicateEmail
		}
		return ErrDuplicateUsername
	case pgForeignKeyViolation:
		return ErrReferenced
	}
	return err
}
