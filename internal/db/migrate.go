package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open; columns added after the first release are appended as ALTER
// statements whose "duplicate column" failure is expected on re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS drafts (
		id         TEXT PRIMARY KEY,
		step       INTEGER NOT NULL DEFAULT 0
		           CHECK(step BETWEEN 0 AND 3),
		state_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at)`,

	`CREATE TABLE IF NOT EXISTS app_flags (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS completions (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		email        TEXT NOT NULL,
		company_json TEXT NOT NULL,
		goals_json   TEXT NOT NULL,
		goal_count   INTEGER NOT NULL DEFAULT 0
		             CHECK(goal_count >= 0),
		completed_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_completions_user ON completions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_completions_completed ON completions(completed_at)`,

	`ALTER TABLE completions ADD COLUMN standards TEXT NOT NULL DEFAULT ''`,
}
