package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: seed the primary currency if no currency is configured.
	// sort_order 0 marks the primary; additional display currencies get
	// higher orders.
	`INSERT OR IGNORE INTO currencies (code, decimal_places, amount_in_primary, sort_order)
	     VALUES ('EUR', 2, '1', 0)`,
}

// Migrate runs the schema and all migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
