package infrastructure

import (
	"context"
	"path/filepath"
	"testing"

	"agrihire-backend/dal"
	"agrihire-backend/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesOrder(t *testing.T) {
	tables := Tables()

	require.Len(t, tables, 7)
	assert.Equal(t, "users", tables[0])
	assert.Less(t, indexOf(tables, "organizations"), indexOf(tables, "jobs"))
	assert.Less(t, indexOf(tables, "jobs"), indexOf(tables, "applications"))
}

func TestGetTable(t *testing.T) {
	schema, err := GetTable("jobs", dal.DriverPostgres)
	require.NoError(t, err)
	assert.Contains(t, schema.Create, "NUMERIC(14,2)")
	assert.NotEmpty(t, schema.Indexes)

	schema, err = GetTable("jobs", dal.DriverSQLite)
	require.NoError(t, err)
	assert.Contains(t, schema.Create, "salary_min TEXT")

	_, err = GetTable("crews", dal.DriverSQLite)
	assert.Error(t, err)

	_, err = GetTable("jobs", "mysql")
	assert.Error(t, err)
}

func TestInitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	log := logger.NewLogger("error", "text")
	db, err := dal.Open(ctx, dal.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Init(ctx, db, log))
	require.NoError(t, Init(ctx, db, log))

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'"))
	assert.Equal(t, 7, count)
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
