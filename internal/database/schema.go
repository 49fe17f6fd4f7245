package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS applications (
		id SERIAL PRIMARY KEY,
		nickname VARCHAR(100) NOT NULL,
		age INTEGER NOT NULL,
		timezone VARCHAR(50),
		telegram VARCHAR(100) NOT NULL,
		discord VARCHAR(100),
		role VARCHAR(50) NOT NULL,
		experience TEXT,
		minecraft_exp TEXT,
		motivation TEXT,
		portfolio TEXT,
		time_available VARCHAR(100),
		created_at TIMESTAMP DEFAULT NOW(),
		status VARCHAR(20) DEFAULT 'new'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_created_at ON applications (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_role_status ON applications (role, status)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_telegram ON applications (telegram)`,
}

// EnsureSchema creates the applications table and its indexes when missing.
// Intentionally not a migration system: the schema is a single table and the
// statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}
