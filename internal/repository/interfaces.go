package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// ErrNotFound is wrapped by every repository lookup that matches no row.
var ErrNotFound = errors.New("not found")

type DraftRepo interface {
	Save(ctx context.Context, d *domain.Draft) error
	GetByID(ctx context.Context, id string) (*domain.Draft, error)
	Latest(ctx context.Context) (*domain.Draft, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type FlagRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type CompletionRepo interface {
	Create(ctx context.Context, c *domain.Completion) error
	Latest(ctx context.Context) (*domain.Completion, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Completion, error)
}
