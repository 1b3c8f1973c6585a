package onboarding

import (
	"slices"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// Action is a state transition request. The set of actions is closed:
// only types in this package implement it.
type Action interface {
	actionName() string
}

type (
	// SetStep jumps to step N.
	SetStep struct{ N Step }
	// AdvanceStep moves one step forward.
	AdvanceStep struct{}
	// RetreatStep moves one step back.
	RetreatStep struct{}
	// UpdateCompany merges a partial company record.
	UpdateCompany struct{ Patch domain.CompanyPatch }
	// ReplaceUploadedFiles swaps the upload list.
	ReplaceUploadedFiles struct{ Files []domain.UploadedFile }
	// ReplaceSelectedStandards swaps the selected standard ids.
	ReplaceSelectedStandards struct{ IDs []string }
	// SetSkipFileUpload records whether the upload step was bypassed.
	SetSkipFileUpload struct{ Skip bool }
	// ReplaceExtractedGoals swaps the goal collection; nil clears it.
	ReplaceExtractedGoals struct{ Goals *domain.GoalCollection }
	// SetProcessing flags an in-flight async operation.
	SetProcessing struct{ On bool }
	// SetError shows a banner message; an empty message clears it.
	SetError struct{ Message string }
	// DismissError clears the banner.
	DismissError struct{}
	// Reset restores InitialState.
	Reset struct{}

	// UpdateGoal merges Patch into a goal.
	UpdateGoal struct {
		PillarID domain.PillarID
		GoalID   string
		Patch    domain.GoalPatch
	}
	// AddGoal appends a blank goal with a caller-chosen id.
	AddGoal struct {
		PillarID domain.PillarID
		GoalID   string
		Today    time.Time
	}
	// RemoveGoal deletes a goal.
	RemoveGoal struct {
		PillarID domain.PillarID
		GoalID   string
	}
	// AddTarget appends an empty target to a goal.
	AddTarget struct {
		PillarID domain.PillarID
		GoalID   string
	}
	// UpdateTarget merges Patch into the target at Index.
	UpdateTarget struct {
		PillarID domain.PillarID
		GoalID   string
		Index    int
		Patch    domain.TargetPatch
	}
	// RemoveTarget deletes the target at Index.
	RemoveTarget struct {
		PillarID domain.PillarID
		GoalID   string
		Index    int
	}
)

func (SetStep) actionName() string                  { return "SET_STEP" }
func (AdvanceStep) actionName() string              { return "NEXT_STEP" }
func (RetreatStep) actionName() string              { return "PREV_STEP" }
func (UpdateCompany) actionName() string            { return "SET_COMPANY_DATA" }
func (ReplaceUploadedFiles) actionName() string     { return "SET_UPLOADED_FILES" }
func (ReplaceSelectedStandards) actionName() string { return "SET_SELECTED_STANDARDS" }
func (SetSkipFileUpload) actionName() string        { return "SET_SKIP_FILE_UPLOAD" }
func (ReplaceExtractedGoals) actionName() string    { return "SET_EXTRACTED_GOALS" }
func (SetProcessing) actionName() string            { return "SET_PROCESSING" }
func (SetError) actionName() string                 { return "SET_ERROR" }
func (DismissError) actionName() string             { return "DISMISS_ERROR" }
func (Reset) actionName() string                    { return "RESET_ONBOARDING" }
func (UpdateGoal) actionName() string               { return "UPDATE_GOAL" }
func (AddGoal) actionName() string                  { return "ADD_GOAL" }
func (RemoveGoal) actionName() string               { return "REMOVE_GOAL" }
func (AddTarget) actionName() string                { return "ADD_TARGET" }
func (UpdateTarget) actionName() string             { return "UPDATE_TARGET" }
func (RemoveTarget) actionName() string             { return "REMOVE_TARGET" }

// ActionName returns the stable tag of an action, for logging.
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}

// Reduce applies a to s and returns the resulting state. It is pure: s is
// never modified and the result shares no mutable data with a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetStep:
		return withStep(s, a.N)
	case AdvanceStep:
		return withStep(s, s.CurrentStep+1)
	case RetreatStep:
		return withStep(s, s.CurrentStep-1)
	case UpdateCompany:
		s.Company = s.Company.Apply(a.Patch)
	case ReplaceUploadedFiles:
		s.UploadedFiles = nonNil(slices.Clone(a.Files))
	case ReplaceSelectedStandards:
		s.SelectedStandards = nonNil(slices.Clone(a.IDs))
	case SetSkipFileUpload:
		s.SkipFileUpload = a.Skip
	case ReplaceExtractedGoals:
		s.ExtractedGoals = a.Goals.Clone()
	case SetProcessing:
		s.IsProcessing = a.On
	case SetError:
		s.Error = a.Message
	case DismissError:
		s.Error = ""
	case Reset:
		return InitialState()
	case UpdateGoal:
		s.ExtractedGoals = editGoals(s.ExtractedGoals, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
			return c.UpdateGoal(a.PillarID, a.GoalID, a.Patch)
		})
	case AddGoal:
		s.ExtractedGoals = editGoals(s.ExtractedGoals, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
			return c.AddGoal(a.PillarID, a.GoalID, a.Today)
		})
	case RemoveGoal:
		s.ExtractedGoals = editGoals(s.ExtractedGoals, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
			return c.RemoveGoal(a.PillarID, a.GoalID)
		})
	case AddTarget:
		s.ExtractedGoals = editGoals(s.ExtractedGoals, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
			return c.AddTarget(a.PillarID, a.GoalID)
		})
	case UpdateTarget:
		s.ExtractedGoals = editGoals(s.ExtractedGoals, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
			return c.UpdateTarget(a.PillarID, a.GoalID, a.Index, a.Patch)
		})
	case RemoveTarget:
		s.ExtractedGoals = editGoals(s.ExtractedGoals, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
			return c.RemoveTarget(a.PillarID, a.GoalID, a.Index)
		})
	}
	return s
}

// withStep moves to n (clamped) and clears the banner when the step changes.
func withStep(s State, n Step) State {
	n = clampStep(n)
	if n != s.CurrentStep {
		s.Error = ""
	}
	s.CurrentStep = n
	return s
}

// editGoals applies a copy-on-write edit. Lookups that miss leave the
// collection as it was.
func editGoals(c *domain.GoalCollection, fn func(*domain.GoalCollection) (*domain.GoalCollection, error)) *domain.GoalCollection {
	if c == nil {
		return nil
	}
	out, err := fn(c)
	if err != nil {
		return c
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
