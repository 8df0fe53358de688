package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS blueprints (
		form_id    TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		definition TEXT NOT NULL,
		config     TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_blueprints_category ON blueprints(category)`,

	`CREATE TABLE IF NOT EXISTS drafts (
		id         TEXT PRIMARY KEY,
		form_id    TEXT NOT NULL REFERENCES blueprints(form_id) ON DELETE CASCADE,
		name       TEXT NOT NULL DEFAULT '',
		answers    TEXT NOT NULL,
		step       INTEGER NOT NULL DEFAULT 0,
		score      INTEGER NOT NULL DEFAULT 0,
		band       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_drafts_form ON drafts(form_id)`,
}
