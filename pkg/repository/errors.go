package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes that carry domain meaning.
const (
	uniqueViolation = "23505"
)

// MapError translates a driver error into the caller's domain errors.
// A missing row becomes notFound and a unique violation becomes duplicate.
// Anything else passes through untouched.
func MapError(err error, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case sqlState(err) == uniqueViolation:
		return duplicate
	default:
		return err
	}
}

func sqlState(err error) string {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code
	}
	return ""
}
