package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/onboarding/internal/db"
	"github.com/alexanderramin/onboarding/internal/domain"
)

// SQLiteCompletionRepo implements CompletionRepo using a SQLite database.
// Company and goals are stored as JSON documents.
type SQLiteCompletionRepo struct {
	db db.DBTX
}

func NewSQLiteCompletionRepo(conn db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{db: conn}
}

const completionColumns = `id, user_id, email, company_json, goals_json, standards, completed_at`

func (r *SQLiteCompletionRepo) Create(ctx context.Context, c *domain.Completion) error {
	company, err := json.Marshal(c.Company)
	if err != nil {
		return fmt.Errorf("encoding company: %w", err)
	}
	goals, err := json.Marshal(c.Goals)
	if err != nil {
		return fmt.Errorf("encoding goals: %w", err)
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = nowUTC()
	}
	query := `INSERT INTO completions (id, user_id, email, company_json, goals_json,
		goal_count, standards, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Email, string(company), string(goals),
		c.GoalCount(), joinList(c.Standards), formatTime(c.CompletedAt))
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}
	return nil
}

// Latest returns the most recent completion.
func (r *SQLiteCompletionRepo) Latest(ctx context.Context) (*domain.Completion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+completionColumns+` FROM completions ORDER BY completed_at DESC, id LIMIT 1`)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("completion: %w", ErrNotFound)
	}
	return c, err
}

// ListByUser returns the user's completions, newest first.
func (r *SQLiteCompletionRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Completion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+completionColumns+` FROM completions WHERE user_id = ?
		ORDER BY completed_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCompletion returns sql.ErrNoRows unwrapped so callers can map it.
func scanCompletion(s rowScanner) (*domain.Completion, error) {
	var (
		c                      domain.Completion
		company, goals         string
		standards, completedAt string
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Email, &company, &goals, &standards, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning completion: %w", err)
	}
	if err := json.Unmarshal([]byte(company), &c.Company); err != nil {
		return nil, fmt.Errorf("decoding company of completion %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(goals), &c.Goals); err != nil {
		return nil, fmt.Errorf("decoding goals of completion %s: %w", c.ID, err)
	}
	c.Standards = splitList(standards)
	c.CompletedAt = parseTime(completedAt)
	return &c, nil
}
