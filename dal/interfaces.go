package dal

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Handler is implemented by both DB and Tx so repository methods can run
// standalone or inside a caller's transaction.
type Handler interface {
	DriverName() string
	Rebind(string) string

	SelectContext(context.Context, interface{}, string, ...interface{}) error
	GetContext(context.Context, interface{}, string, ...interface{}) error
	QueryxContext(context.Context, string, ...interface{}) (*sqlx.Rows, error)
	QueryRowxContext(context.Context, string, ...interface{}) *sqlx.Row
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
}

// DatabaseClientInterface defines the contract for database operations
type DatabaseClientInterface interface {
	Handler

	TransactionContext(ctx context.Context, fn func(tx *Tx) error) error
	PingContext(ctx context.Context) error
	Close() error
}
