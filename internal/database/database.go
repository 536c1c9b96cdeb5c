// internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// DB пул соединений вместе с диалектом, под который строятся запросы
type DB struct {
	*sql.DB
	Dialect Dialect
}

type ConnectOptions struct {
	// Сколько ждать, пока база станет доступной (docker-compose поднимает её параллельно)
	Timeout time.Duration
	// Пауза между попытками
	RetryInterval time.Duration
}

func Open(dialect Dialect, dsn string) (*DB, error) {
	if dialect == MySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if dialect == SQLite {
		// один писатель; для :memory: еще и одна база на соединение
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Connect открывает пул и ждет успешного ping, повторяя попытки до истечения Timeout
func Connect(ctx context.Context, dialect Dialect, dsn string, opts ConnectOptions) (*DB, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Second
	}

	db, err := Open(dialect, dsn)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(opts.Timeout)
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			slog.Info("database connected", "driver", dialect, "attempts", attempt)
			return db, nil
		}

		if time.Now().After(deadline) {
			db.Close()
			return nil, fmt.Errorf("database not reachable after %d attempts: %w", attempt, err)
		}
		slog.Warn("database not ready, retrying", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}
}

// mysqlDSN включает parseTime, чтобы DATETIME сканировался в time.Time
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Migrate применяет все миграции для диалекта базы
func Migrate(ctx context.Context, db *DB) ([]string, error) {
	fsys, err := fs.Sub(migrations, "migrations/"+string(db.Dialect))
	if err != nil {
		return nil, fmt.Errorf("locating migrations: %w", err)
	}

	provider, err := goose.NewProvider(db.Dialect.gooseDialect(), db.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Path)
	}
	return applied, nil
}

// Builder построитель запросов с плейсхолдерами нужного диалекта
func (db *DB) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.Dialect.placeholder())
}

func (db *DB) Exec(ctx context.Context, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return db.DB.ExecContext(ctx, query, args...)
}

func (db *DB) Query(ctx context.Context, q sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return db.DB.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRow(ctx context.Context, q sq.Sqlizer) *Row {
	query, args, err := q.ToSql()
	if err != nil {
		return &Row{err: fmt.Errorf("building query: %w", err)}
	}
	return &Row{row: db.DB.QueryRowContext(ctx, query, args...)}
}

// Row как *sql.Row, но несет ошибку сборки запроса до Scan
type Row struct {
	row *sql.Row
	err error
}

func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return r.row.Scan(dest...)
}

// Insert выполняет INSERT и возвращает id новой строки
func (db *DB) Insert(ctx context.Context, q sq.InsertBuilder) (int64, error) {
	if db.Dialect.SupportsReturning() {
		var id int64
		if err := db.QueryRow(ctx, q.Suffix("RETURNING id")).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := db.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
