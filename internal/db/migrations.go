package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: price and quantity bounds used by the composite filter.
	`CREATE INDEX IF NOT EXISTS idx_items_price ON items(price)`,
	`CREATE INDEX IF NOT EXISTS idx_items_quantity ON items(quantity)`,

	// Migration 2: revoked seller tokens.
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
	    jti        TEXT PRIMARY KEY,
	    expires_at TEXT NOT NULL
	)`,
}

// Migrate ensures the schema and then applies every migration.
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
