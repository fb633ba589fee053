package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// UniqueViolation reports whether err is a unique constraint failure from
// either driver, and the name of the violated constraint.
func UniqueViolation(err error) (constraint string, ok bool) {
	return violation(err, uniqueViolation)
}

// ForeignKeyViolation reports whether err is a foreign key failure, such as
// deleting a row that is still referenced.
func ForeignKeyViolation(err error) bool {
	_, ok := violation(err, foreignKeyViolation)
	return ok
}

func violation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return pqErr.Constraint, true
	}
	return "", false
}
