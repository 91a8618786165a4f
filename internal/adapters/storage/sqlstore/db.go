// Package sqlstore implements the portfolio repositories on database/sql.
//
// SQLite (modernc.org/sqlite, pure Go) is the default backend; PostgreSQL
// (github.com/lib/pq) is selected with driver "postgres". Queries are written
// with ? placeholders and rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// sqlitePragmas are appended to every SQLite DSN.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
	"_time_format=sqlite",
}

// Config selects and tunes the backend.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is a database handle that knows its dialect.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Open connects and pings the configured database.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect := Dialect(cfg.Driver)

	var driverName, dsn string

	switch dialect {
	case DialectSQLite:
		driverName, dsn = "sqlite", sqliteDSN(cfg.DSN)
	case DialectPostgres:
		driverName, dsn = "postgres", cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging %s database: %w", dialect, err)
	}

	logger.Debug("database connection established", slog.String("driver", string(dialect)))

	return &DB{conn: conn, dialect: dialect, logger: logger}, nil
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + strings.Join(sqlitePragmas, "&")
}

// Dialect returns the backend in use.
func (db *DB) Dialect() Dialect { return db.dialect }

// Close closes the pool.
func (db *DB) Close() error { return db.conn.Close() }

// Name implements ports.HealthChecker.
func (db *DB) Name() string { return "database" }

// Check implements ports.HealthChecker.
func (db *DB) Check(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return domain.NewUnavailableError("database", err.Error())
	}

	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.rebind(query), args...)
}

// Transaction runs fn inside a transaction, rolling back when fn fails.
func (db *DB) Transaction(ctx context.Context, fn func(q querier) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&reboundTx{tx: tx, db: db}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.ErrorContext(ctx, "transaction rollback failed", slog.Any("error", rbErr))
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// reboundTx rebinds placeholders on a transaction.
type reboundTx struct {
	tx *sql.Tx
	db *DB
}

func (t *reboundTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.db.rebind(query), args...)
}

func (t *reboundTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.db.rebind(query), args...)
}

func (t *reboundTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.db.rebind(query), args...)
}

// rebind rewrites ? placeholders to $1, $2... for PostgreSQL.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// translate maps driver errors onto domain errors for entity.
func translate(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(entity, id)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code, msg := liteErr.Code(), liteErr.Error()

		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "UNIQUE"):
			return domain.NewConflictError(entity, "already exists")
		case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
			code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "FOREIGN KEY"):
			return domain.NewValidationError("", "references missing content")
		case code&0xff == sqlite3.SQLITE_BUSY, code&0xff == sqlite3.SQLITE_LOCKED:
			return domain.NewUnavailableError("database", "database is busy")
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return domain.NewConflictError(entity, "already exists")
		case "23503":
			return domain.NewValidationError("", "references missing content")
		}

		if pqErr.Code.Class() == "08" {
			return domain.NewUnavailableError("database", pqErr.Message)
		}
	}

	return fmt.Errorf("%s store: %w", entity, err)
}

// now returns the storage timestamp: UTC, microsecond precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// checkAffected turns a zero-row update or delete into a not found error.
func checkAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s store: %w", entity, err)
	}

	if n == 0 {
		return domain.NewNotFoundError(entity, id)
	}

	return nil
}
