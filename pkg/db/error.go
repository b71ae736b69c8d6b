package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err comes from a unique constraint
// violation on any of the supported dialects.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// ErrorMeta extracts the driver error code and the violated constraint name
// when the dialect exposes them, so callers can report which constraint a
// failed write hit.
func ErrorMeta(err error) (code, constraint string) {
	if err == nil {
		return "", ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}

	if IsDuplicateKeyErr(err) {
		return "unique_violation", uniqueConstraintFromMessage(err.Error())
	}
	return "", ""
}

// uniqueConstraintFromMessage pulls the constrained column out of the sqlite
// and mysql message formats, which carry no structured error fields.
func uniqueConstraintFromMessage(msg string) string {
	const sqlitePrefix = "UNIQUE constraint failed: "
	if i := strings.Index(msg, sqlitePrefix); i >= 0 {
		rest := msg[i+len(sqlitePrefix):]
		if j := strings.IndexAny(rest, " ,("); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}

	const mysqlMarker = "for key '"
	if i := strings.Index(msg, mysqlMarker); i >= 0 {
		rest := msg[i+len(mysqlMarker):]
		if j := strings.Index(rest, "'"); j >= 0 {
			return rest[:j]
		}
	}
	return ""
}
