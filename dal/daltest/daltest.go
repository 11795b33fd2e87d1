// Package daltest opens throwaway databases for tests.
package daltest

import (
	"context"
	"path/filepath"
	"testing"

	"agrihire-backend/dal"
	"agrihire-backend/infrastructure"
	"agrihire-backend/utils/logger"
)

// OpenSqlite opens a new temp SQLite database with every table created.
// The database is closed when the test is done.
func OpenSqlite(tb testing.TB) *dal.DB {
	tb.Helper()
	ctx := context.Background()
	log := logger.NewLogger("error", "text")

	db, err := dal.Open(ctx, dal.DriverSQLite, filepath.Join(tb.TempDir(), "test.db"), log)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if err := db.Close(); err != nil {
			tb.Error(err)
		}
	})
	if err := infrastructure.Init(ctx, db, log); err != nil {
		tb.Fatalf("init schema: %v", err)
	}
	return db
}
