package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgForeignKeyViolation     = "23503"
	sqliteForeignKeyViolation = 787
)

// sqliteError matches driver errors that expose an extended SQLite result
// code.
type sqliteError interface {
	Code() int
}

// IsForeignKeyViolation reports whether err references a row that does not
// exist. Raw driver errors and ones translated by GORM are both recognised.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var liteErr sqliteError
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqliteForeignKeyViolation
	}
	return false
}
