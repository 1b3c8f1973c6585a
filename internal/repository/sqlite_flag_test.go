package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/onboarding/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteFlagRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "onboarding_complete")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFlagRepo_SetOverwrites(t *testing.T) {
	repo := NewSQLiteFlagRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "onboarding_complete", "false"))
	require.NoError(t, repo.Set(ctx, "onboarding_complete", "true"))

	v, err := repo.Get(ctx, "onboarding_complete")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestFlagRepo_DeleteIsIdempotent(t *testing.T) {
	repo := NewSQLiteFlagRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v"))
	require.NoError(t, repo.Delete(ctx, "k"))
	require.NoError(t, repo.Delete(ctx, "k"))

	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
