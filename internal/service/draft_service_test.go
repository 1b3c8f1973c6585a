package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/alexanderramin/onboarding/internal/repository"
	"github.com/alexanderramin/onboarding/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newDraftHarness(t *testing.T) (*DraftService, *repository.SQLiteDraftRepo) {
	t.Helper()
	repo := repository.NewSQLiteDraftRepo(testutil.NewTestDB(t))
	return NewDraftService(repo, zaptest.NewLogger(t)), repo
}

func TestDraftService_AutosaveAndResume(t *testing.T) {
	svc, repo := newDraftHarness(t)
	store := onboarding.NewStore(onboarding.InitialState())
	svc.Attach(store)

	company := testutil.NewTestCompany()
	store.Dispatch(onboarding.UpdateCompany{Patch: domain.CompanyPatch{Name: &company.Name}})
	store.Dispatch(onboarding.AdvanceStep{}, onboarding.SetError{Message: "transient"})

	d, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, svc.ID(), d.ID)
	assert.Equal(t, int(onboarding.StepUpload), d.Step)

	resumer := NewDraftService(repo, nil)
	state, ok, err := resumer.Resume(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, onboarding.StepUpload, state.CurrentStep)
	assert.Equal(t, "Acme DC", state.Company.Name)
	assert.Empty(t, state.Error, "banners are not persisted")
	assert.False(t, state.IsProcessing)
	assert.Equal(t, d.ID, resumer.ID())
}

func TestDraftService_TransientChangesDoNotWrite(t *testing.T) {
	svc, repo := newDraftHarness(t)
	ctx := context.Background()

	s := onboarding.InitialState()
	s.CurrentStep = onboarding.StepUpload
	require.NoError(t, svc.Save(ctx, s))
	first, err := repo.Latest(ctx)
	require.NoError(t, err)

	s.IsProcessing = true
	s.Error = "busy"
	require.NoError(t, svc.Save(ctx, s))

	again, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, first.UpdatedAt.Equal(again.UpdatedAt), "processing flag and banner are not saved")
}

func TestDraftService_ResetRemovesDraft(t *testing.T) {
	svc, repo := newDraftHarness(t)
	store := onboarding.NewStore(onboarding.InitialState())
	svc.Attach(store)

	store.Dispatch(onboarding.AdvanceStep{})
	_, err := repo.Latest(context.Background())
	require.NoError(t, err)

	store.Dispatch(onboarding.Reset{})
	_, err = repo.Latest(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, svc.ID())
}

func TestDraftService_ResumeWithoutDraft(t *testing.T) {
	svc, _ := newDraftHarness(t)

	state, ok, err := svc.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, onboarding.InitialState(), state)
}

func TestDraftService_ResumeDropsMissingFiles(t *testing.T) {
	svc, repo := newDraftHarness(t)
	ctx := context.Background()

	kept := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(kept, []byte("%PDF-1.4"), 0o600))

	s := onboarding.InitialState()
	s.CurrentStep = onboarding.StepUpload
	s.UploadedFiles = []domain.UploadedFile{
		{Name: "report.pdf", Size: 8, Path: kept},
		{Name: "gone.pdf", Size: 10, Path: filepath.Join(t.TempDir(), "gone.pdf")},
	}
	require.NoError(t, svc.Save(ctx, s))

	state, ok, err := NewDraftService(repo, nil).Resume(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, state.UploadedFiles, 1)
	assert.Equal(t, "report.pdf", state.UploadedFiles[0].Name)
}

func TestDraftService_ResumeCorruptDraft(t *testing.T) {
	svc, repo := newDraftHarness(t)
	require.NoError(t, repo.Save(context.Background(), testutil.NewTestDraft(1, `{not json`)))

	_, ok, err := svc.Resume(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
