package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/onboarding/internal/identity"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/alexanderramin/onboarding/internal/repository"
	"github.com/alexanderramin/onboarding/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompletion() onboarding.Completion {
	return onboarding.Completion{
		Email:     "Jo@Acme.example",
		Company:   testutil.NewTestCompany(),
		Goals:     testutil.NewTestGoals(),
		Standards: []string{"iso-14001"},
	}
}

func TestCompletionService_Success(t *testing.T) {
	database := testutil.NewTestDB(t)
	api := newFakeUserAPI()
	obs := &recordingObserver{}
	svc := NewCompletionService(api, testutil.NewTestUoW(database), obs)
	ctx := context.Background()

	drafts := repository.NewSQLiteDraftRepo(database)
	require.NoError(t, drafts.Save(ctx, testutil.NewTestDraft(3, `{}`)))

	require.NoError(t, svc.Complete(ctx, testCompletion()))

	userID := identity.UserID("Jo@Acme.example")
	assert.Equal(t, []string{userID}, api.addedUsers)
	assert.Equal(t, 1, api.savedGoals[userID].TotalGoals())

	flag, err := repository.NewSQLiteFlagRepo(database).Get(ctx, FlagOnboardingComplete)
	require.NoError(t, err)
	assert.Equal(t, "true", flag)

	latest, err := repository.NewSQLiteCompletionRepo(database).Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, latest.UserID)
	assert.Equal(t, []string{"iso-14001"}, latest.Standards)

	_, err = drafts.Latest(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound, "drafts are removed on completion")

	require.Len(t, obs.events, 1)
	assert.Equal(t, "complete-onboarding", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, int64(1), obs.events[0].Fields["drafts_removed"])
}

func TestCompletionService_AddUserFails(t *testing.T) {
	database := testutil.NewTestDB(t)
	api := newFakeUserAPI()
	api.addErr = errors.New("503")
	obs := &recordingObserver{}
	svc := NewCompletionService(api, testutil.NewTestUoW(database), obs)

	err := svc.Complete(context.Background(), testCompletion())
	require.ErrorIs(t, err, onboarding.ErrUserNotSaved)
	assert.NotErrorIs(t, err, onboarding.ErrGoalsNotSaved)
	assert.Empty(t, api.savedGoals, "goals are not saved without a user")

	_, flagErr := repository.NewSQLiteFlagRepo(database).Get(context.Background(), FlagOnboardingComplete)
	assert.ErrorIs(t, flagErr, repository.ErrNotFound)

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, err, obs.events[0].Err)
}

func TestCompletionService_SaveGoalsFails(t *testing.T) {
	database := testutil.NewTestDB(t)
	api := newFakeUserAPI()
	api.saveErr = errors.New("500")
	svc := NewCompletionService(api, testutil.NewTestUoW(database))

	err := svc.Complete(context.Background(), testCompletion())
	require.ErrorIs(t, err, onboarding.ErrGoalsNotSaved)
	assert.Len(t, api.addedUsers, 1, "the user was saved before goals failed")

	_, flagErr := repository.NewSQLiteFlagRepo(database).Get(context.Background(), FlagOnboardingComplete)
	assert.ErrorIs(t, flagErr, repository.ErrNotFound)
}

func TestCompletionService_LocalWriteRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	// Fail on the completion insert, after the flag write.
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: boom}
	svc := NewCompletionService(newFakeUserAPI(), uow)
	ctx := context.Background()

	err := svc.Complete(ctx, testCompletion())
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, onboarding.ErrUserNotSaved)

	_, flagErr := repository.NewSQLiteFlagRepo(database).Get(ctx, FlagOnboardingComplete)
	assert.ErrorIs(t, flagErr, repository.ErrNotFound, "flag write must roll back")
}
