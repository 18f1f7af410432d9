package storage

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	// mysqlDuplicateEntry is ER_DUP_ENTRY.
	mysqlDuplicateEntry = 1062
	// pgUniqueViolation is SQLSTATE unique_violation.
	pgUniqueViolation = "23505"
)

// IsDuplicateKey reports whether err is a unique-constraint violation from any
// supported driver, translated by gorm or not.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	// mattn/go-sqlite3 errors are matched by text when not translated.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}
