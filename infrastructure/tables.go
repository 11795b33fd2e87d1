package infrastructure

import (
	"context"
	_ "embed"
	"fmt"

	"agrihire-backend/dal"
	"agrihire-backend/utils/logger"

	"github.com/tidwall/gjson"
)

// TableSchema is the DDL of one table for one driver.
type TableSchema struct {
	Name    string
	Create  string
	Indexes []string
}

//go:embed table_schema.json
var tablesSchema []byte

// Tables returns the table names in creation order. Tables referenced by a
// foreign key come before the tables referencing them.
func Tables() []string {
	var names []string
	for _, n := range gjson.GetBytes(tablesSchema, "tables.#.name").Array() {
		names = append(names, n.String())
	}
	return names
}

// GetTable returns the schema of tableName for the given driver.
func GetTable(tableName, driver string) (*TableSchema, error) {
	tableJson := gjson.GetBytes(tablesSchema, fmt.Sprintf(`tables.#(name==%q)`, tableName))
	if !tableJson.Exists() {
		return nil, fmt.Errorf("table schema not found for key: %s", tableName)
	}

	create := tableJson.Get(driver)
	if !create.Exists() {
		return nil, fmt.Errorf("table %s has no schema for driver %s", tableName, driver)
	}

	schema := &TableSchema{Name: tableName, Create: create.String()}
	for _, idx := range tableJson.Get("indexes").Array() {
		schema.Indexes = append(schema.Indexes, idx.String())
	}
	return schema, nil
}

// Init creates every table and index that does not exist yet. It runs in a
// single transaction and is safe to call on every start.
func Init(ctx context.Context, db dal.DatabaseClientInterface, log logger.Logger) error {
	return db.TransactionContext(ctx, func(tx *dal.Tx) error {
		for _, name := range Tables() {
			schema, err := GetTable(name, tx.DriverName())
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, schema.Create); err != nil {
				return fmt.Errorf("failed to create table %s: %w", name, err)
			}
			for _, idx := range schema.Indexes {
				if _, err := tx.ExecContext(ctx, idx); err != nil {
					return fmt.Errorf("failed to create index on %s: %w", name, err)
				}
			}
			log.Debugf("table %s ready", name)
		}
		return nil
	})
}
