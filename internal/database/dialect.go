// internal/database/dialect.go
package database

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect различия SQL между поддерживаемыми движками
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case MySQL, Postgres, SQLite:
		return d, nil
	case "sqlite3":
		return SQLite, nil
	case "postgresql", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

// DriverName имя драйвера для sql.Open
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

func (d Dialect) gooseDialect() goose.Dialect {
	switch d {
	case Postgres:
		return goose.DialectPostgres
	case SQLite:
		return goose.DialectSQLite3
	default:
		return goose.DialectMySQL
	}
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// SupportsReturning true, если id новой строки получаем через RETURNING, а не LastInsertId
func (d Dialect) SupportsReturning() bool {
	return d == Postgres
}

// UpsertSuffix хвост INSERT, превращающий его в upsert по уникальному ключу.
// updateCols - колонки, которые перезаписываются новыми значениями.
func (d Dialect) UpsertSuffix(conflictCol string, updateCols ...string) string {
	sets := make([]string, 0, len(updateCols))
	if d == MySQL {
		for _, c := range updateCols {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		}
		return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	for _, c := range updateCols {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", conflictCol, strings.Join(sets, ", "))
}

// UniqueViolation проверяет, нарушено ли ограничение уникальности, и возвращает
// имя нарушенного ключа: "uq_users_email" (mysql, postgres) или "users.email" (sqlite).
func UniqueViolation(err error) (key string, ok bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		// Duplicate entry 'x' for key 'users.uq_users_email'
		msg := myErr.Message
		if i := strings.LastIndex(msg, " for key "); i >= 0 {
			msg = msg[i+len(" for key "):]
		}
		key = strings.Trim(msg, "'")
		if i := strings.LastIndex(key, "."); i >= 0 {
			key = key[i+1:]
		}
		return key, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		msg := liteErr.Error()
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT:
			if !strings.Contains(msg, "UNIQUE constraint failed") {
				break
			}
			// ... UNIQUE constraint failed: users.email (2067)
			if i := strings.LastIndex(msg, "failed: "); i >= 0 {
				msg = msg[i+len("failed: "):]
			}
			if i := strings.Index(msg, " "); i >= 0 {
				msg = msg[:i]
			}
			return msg, true
		}
	}

	return "", false
}
