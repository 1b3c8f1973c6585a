package onboarding

import (
	"testing"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func sampleGoals() *domain.GoalCollection {
	c := domain.NewGoalCollection(domain.DefaultConfidence)
	c, _ = c.AppendGoal(domain.PillarEnvironment, domain.Goal{
		ID:       "env-goal-1",
		Title:    "Cut emissions",
		Category: domain.CategoryEmissions,
		DueDate:  "2030-12-31",
		Targets:  []domain.Target{domain.NewTarget("Scope 1 -20%")},
	})
	return c
}

func TestReduce_StepNavigationClamps(t *testing.T) {
	s := InitialState()

	s = Reduce(s, RetreatStep{})
	assert.Equal(t, StepCompany, s.CurrentStep)

	s = Reduce(s, SetStep{N: 99})
	assert.Equal(t, StepConfirm, s.CurrentStep)

	s = Reduce(s, AdvanceStep{})
	assert.Equal(t, StepConfirm, s.CurrentStep)

	s = Reduce(s, SetStep{N: -3})
	assert.Equal(t, StepCompany, s.CurrentStep)
}

func TestReduce_StepChangeClearsError(t *testing.T) {
	s := Reduce(InitialState(), SetError{Message: "boom"})
	require.Equal(t, "boom", s.Error)

	same := Reduce(s, RetreatStep{})
	assert.Equal(t, "boom", same.Error, "clamped no-op keeps the banner")

	moved := Reduce(s, AdvanceStep{})
	assert.Empty(t, moved.Error)
}

func TestReduce_UpdateCompanyMergesPartial(t *testing.T) {
	s := Reduce(InitialState(), UpdateCompany{Patch: domain.CompanyPatch{Name: strPtr("Acme DC")}})
	s = Reduce(s, UpdateCompany{Patch: domain.CompanyPatch{Website: strPtr("acme.io")}})

	assert.Equal(t, "Acme DC", s.Company.Name)
	assert.Equal(t, "acme.io", s.Company.Website)
	assert.Empty(t, s.Company.ContactEmail)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := InitialState()
	before.ExtractedGoals = sampleGoals()
	before.SelectedStandards = []string{"iso-9001"}
	snapshot := before.Clone()

	after := Reduce(before, UpdateGoal{
		PillarID: domain.PillarEnvironment,
		GoalID:   "env-goal-1",
		Patch:    domain.GoalPatch{Title: strPtr("Net zero")},
	})
	after = Reduce(after, ReplaceSelectedStandards{IDs: []string{"eed"}})

	assert.Equal(t, snapshot, before)
	assert.Equal(t, "Net zero", after.ExtractedGoals.Pillars[0].Goals[0].Title)
	assert.Equal(t, []string{"eed"}, after.SelectedStandards)
}

func TestReduce_ReplaceCopiesInputSlices(t *testing.T) {
	files := []domain.UploadedFile{{Name: "a.pdf", Size: 1}}
	s := Reduce(InitialState(), ReplaceUploadedFiles{Files: files})
	files[0].Name = "changed.pdf"

	assert.Equal(t, "a.pdf", s.UploadedFiles[0].Name)
}

func TestReduce_ReplaceNilNormalizesToEmpty(t *testing.T) {
	s := Reduce(InitialState(), ReplaceSelectedStandards{IDs: nil})
	assert.NotNil(t, s.SelectedStandards)
	assert.Empty(t, s.SelectedStandards)
}

func TestReduce_GoalEditWithoutCollectionIsNoop(t *testing.T) {
	s := Reduce(InitialState(), AddTarget{PillarID: domain.PillarEnvironment, GoalID: "x"})
	assert.Nil(t, s.ExtractedGoals)
}

func TestReduce_MissingGoalLeavesCollection(t *testing.T) {
	s := InitialState()
	s.ExtractedGoals = sampleGoals()

	next := Reduce(s, RemoveGoal{PillarID: domain.PillarSocial, GoalID: "env-goal-1"})
	assert.Equal(t, 1, next.ExtractedGoals.TotalGoals())

	next = Reduce(s, UpdateTarget{PillarID: domain.PillarEnvironment, GoalID: "env-goal-1", Index: 5, Patch: domain.TargetPatch{Progress: intPtr(10)}})
	assert.Equal(t, s.ExtractedGoals, next.ExtractedGoals)
}

func TestReduce_TargetLifecycle(t *testing.T) {
	s := InitialState()
	s.ExtractedGoals = sampleGoals()
	env := domain.PillarEnvironment

	s = Reduce(s, AddTarget{PillarID: env, GoalID: "env-goal-1"})
	s = Reduce(s, UpdateTarget{PillarID: env, GoalID: "env-goal-1", Index: 1, Patch: domain.TargetPatch{
		Name:     strPtr("Scope 2 -30%"),
		Progress: intPtr(150),
	}})
	targets := s.ExtractedGoals.Pillars[0].Goals[0].Targets
	require.Len(t, targets, 2)
	assert.Equal(t, "Scope 2 -30%", targets[1].Name)
	assert.Equal(t, 100, targets[1].Progress)
	assert.Equal(t, domain.TargetAchieved, targets[1].Status)

	s = Reduce(s, RemoveTarget{PillarID: env, GoalID: "env-goal-1", Index: 0})
	targets = s.ExtractedGoals.Pillars[0].Goals[0].Targets
	require.Len(t, targets, 1)
	assert.Equal(t, "Scope 2 -30%", targets[0].Name)
}

func TestReduce_AddGoalUsesPillarDefaults(t *testing.T) {
	s := InitialState()
	s.ExtractedGoals = domain.NewGoalCollection(domain.DefaultConfidence)
	today := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	s = Reduce(s, AddGoal{PillarID: domain.PillarSocial, GoalID: "soc-goal-1", Today: today})

	g := s.ExtractedGoals.Pillars[1].Goals[0]
	assert.Equal(t, "soc-goal-1", g.ID)
	assert.Equal(t, "New Goal", g.Title)
	assert.Equal(t, domain.CategorySocial, g.Category)
	assert.Equal(t, "2026-10-16", g.DueDate)
	assert.Empty(t, g.Targets)
}

func TestReduce_ResetRestoresInitialState(t *testing.T) {
	s := InitialState()
	for _, a := range []Action{
		UpdateCompany{Patch: domain.CompanyPatch{Name: strPtr("Acme DC"), ContactEmail: strPtr("ops@acme.io")}},
		AdvanceStep{},
		ReplaceUploadedFiles{Files: []domain.UploadedFile{{Name: "r.pdf", Size: 10}}},
		ReplaceSelectedStandards{IDs: []string{"iso-14001"}},
		SetSkipFileUpload{Skip: true},
		ReplaceExtractedGoals{Goals: sampleGoals()},
		SetProcessing{On: true},
		SetError{Message: "failure"},
		AdvanceStep{},
	} {
		s = Reduce(s, a)
	}

	assert.Equal(t, InitialState(), Reduce(s, Reset{}))
}

func TestActionName(t *testing.T) {
	assert.Equal(t, "RESET_ONBOARDING", ActionName(Reset{}))
	assert.Equal(t, "UPDATE_TARGET", ActionName(UpdateTarget{}))
	assert.Empty(t, ActionName(nil))
}
