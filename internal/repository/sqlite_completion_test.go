package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRepo_CreateAndLatest(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteCompletionRepo(database)
	ctx := context.Background()

	c := testutil.NewTestCompletion(testutil.WithStandards("iso-14001", "gri"))
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Company, got.Company)
	assert.Equal(t, []string{"iso-14001", "gri"}, got.Standards)
	require.NotNil(t, got.Goals)
	assert.Equal(t, 1, got.GoalCount())

	env, ok := got.Goals.Pillar(domain.PillarEnvironment)
	require.True(t, ok)
	assert.Equal(t, "Cut Scope 2 emissions", env.Goals[0].Title)

	var stored int
	require.NoError(t, database.QueryRow(`SELECT goal_count FROM completions WHERE id = ?`, c.ID).Scan(&stored))
	assert.Equal(t, 1, stored)
}

func TestCompletionRepo_LatestEmpty(t *testing.T) {
	repo := NewSQLiteCompletionRepo(testutil.NewTestDB(t))

	_, err := repo.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletionRepo_ListByUserNewestFirst(t *testing.T) {
	repo := NewSQLiteCompletionRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	first := testutil.NewTestCompletion(testutil.WithCompletedAt(base))
	second := testutil.NewTestCompletion(testutil.WithCompletedAt(base.Add(time.Hour)))
	other := testutil.NewTestCompletion(testutil.WithUser("auth0_ff", "x@y.co"))
	for _, c := range []*domain.Completion{first, second, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	got, err := repo.ListByUser(ctx, first.UserID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestCompletionRepo_EmptyStandards(t *testing.T) {
	repo := NewSQLiteCompletionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	c := testutil.NewTestCompletion(testutil.WithStandards())
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Standards)
}
