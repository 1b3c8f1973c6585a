package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/onboarding/internal/db"
)

// SQLiteFlagRepo stores application flags as key/value rows.
type SQLiteFlagRepo struct {
	db db.DBTX
}

func NewSQLiteFlagRepo(conn db.DBTX) *SQLiteFlagRepo {
	return &SQLiteFlagRepo{db: conn}
}

func (r *SQLiteFlagRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_flags WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("flag %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading flag %s: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteFlagRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO app_flags (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, formatTime(nowUTC()))
	if err != nil {
		return fmt.Errorf("setting flag %s: %w", key, err)
	}
	return nil
}

// Delete removes the flag. Deleting an absent flag is not an error.
func (r *SQLiteFlagRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM app_flags WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting flag %s: %w", key, err)
	}
	return nil
}
