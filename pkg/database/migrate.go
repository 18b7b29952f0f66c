package database

import (
	"database/sql"
	"fmt"
	"os"
)

// Migrate applies the schema in docs/schema.sql. All statements are
// CREATE TABLE IF NOT EXISTS so reapplying is safe.
func Migrate(db *sql.DB) error {
	b, err := os.ReadFile("docs/schema.sql")
	if err != nil {
		return fmt.Errorf("read docs/schema.sql: %w", err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// MigrateSchema applies an already-loaded schema string. Used by tests and
// tools that run against an in-memory database.
func MigrateSchema(db *sql.DB, schema string) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
