package dal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrihire-backend/models"
	"agrihire-backend/utils/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps sqlx.DB and traces every statement at debug level.
type DB struct {
	*sqlx.DB
	logger logger.Logger
}

// Tx is a database transaction.
type Tx struct {
	*sqlx.Tx
	logger logger.Logger
}

// NewDatabaseClient opens the database named by the configuration.
func NewDatabaseClient(ctx context.Context, cfg *models.Config, log logger.Logger) (*DB, error) {
	db, err := Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDataSource, log)
	if err != nil {
		return nil, err
	}
	log.Infof("✅ %s database opened", db.DriverName())
	return db, nil
}

// Open opens a database connection. SQLite data sources get foreign keys,
// a busy timeout and immediate transactions unless they set their own.
func Open(ctx context.Context, driverName, dsn string, log logger.Logger) (*DB, error) {
	switch driverName {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown driver %q", driverName)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driverName, err)
	}
	if driverName == DriverPostgres {
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	return &DB{DB: db, logger: log}, nil
}

func sqliteDSN(dsn string) string {
	params := []string{}
	if !strings.Contains(dsn, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(dsn, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.DB.Close()
}

// TransactionContext runs fn in a transaction, committing when fn returns
// nil and rolling back otherwise.
func (d *DB) TransactionContext(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &Tx{txx, d.logger}
	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		if errors.Is(rerr, sql.ErrTxDone) {
			return err
		}
		return fmt.Errorf("failed to rollback: %s: %w", err.Error(), rerr)
	}

	return err
}

// LockClause returns the row-lock suffix for a SELECT that precedes a
// compare-and-set update. SQLite serializes writers so it needs none.
func LockClause(h Handler) string {
	if h.DriverName() == DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

func trace(l logger.Logger, query string, args ...interface{}) {
	if l != nil {
		query = strings.Join(strings.Fields(query), " ")
		l.Debugf("sql: %s args=%v", query, args)
	}
}

func (d *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(d.logger, query, args...)
	return d.DB.SelectContext(ctx, dest, query, args...)
}

func (d *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(d.logger, query, args...)
	return d.DB.GetContext(ctx, dest, query, args...)
}

func (d *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	trace(d.logger, query, args...)
	return d.DB.QueryxContext(ctx, query, args...)
}

func (d *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	trace(d.logger, query, args...)
	return d.DB.QueryRowxContext(ctx, query, args...)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	trace(d.logger, query, args...)
	return d.DB.ExecContext(ctx, query, args...)
}

func (t *Tx) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(t.logger, query, args...)
	return t.Tx.SelectContext(ctx, dest, query, args...)
}

func (t *Tx) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace(t.logger, query, args...)
	return t.Tx.GetContext(ctx, dest, query, args...)
}

func (t *Tx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	trace(t.logger, query, args...)
	return t.Tx.QueryxContext(ctx, query, args...)
}

func (t *Tx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	trace(t.logger, query, args...)
	return t.Tx.QueryRowxContext(ctx, query, args...)
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	trace(t.logger, query, args...)
	return t.Tx.ExecContext(ctx, query, args...)
}
