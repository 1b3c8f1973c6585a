// Package onboarding holds the wizard state machine: the state value, the
// pure reducer that transitions it, the store that owns it and the
// step handlers that guard each transition.
package onboarding

import (
	"slices"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// Step indexes the fixed wizard sequence.
type Step int

const (
	StepCompany Step = iota
	StepUpload
	StepExtract
	StepConfirm
)

// StepInfo names a wizard step.
type StepInfo struct {
	ID    string
	Label string
}

// Steps is the ordered wizard sequence, indexed by Step.
var Steps = []StepInfo{
	{ID: "company", Label: "Company Details"},
	{ID: "upload", Label: "Upload Reports"},
	{ID: "extract", Label: "Review Goals"},
	{ID: "confirm", Label: "Confirmation"},
}

// StepCount is the number of wizard steps.
var StepCount = len(Steps)

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return "unknown"
	}
	return Steps[s].ID
}

// Label returns the human-readable step title.
func (s Step) Label() string {
	if s < 0 || int(s) >= StepCount {
		return ""
	}
	return Steps[s].Label
}

// clampStep bounds n to the valid step range.
func clampStep(n Step) Step {
	if n < 0 {
		return 0
	}
	if int(n) >= StepCount {
		return Step(StepCount - 1)
	}
	return n
}

// State is the complete onboarding state. Values are treated as immutable:
// the reducer always builds a new State and never writes through slices or
// pointers held by a previous one.
type State struct {
	CurrentStep       Step                   `json:"currentStep"`
	Company           domain.CompanyData     `json:"companyData"`
	UploadedFiles     []domain.UploadedFile  `json:"uploadedFiles"`
	SelectedStandards []string               `json:"selectedStandards"`
	SkipFileUpload    bool                   `json:"skipFileUpload"`
	ExtractedGoals    *domain.GoalCollection `json:"extractedGoals"`
	IsProcessing      bool                   `json:"isProcessing"`
	Error             string                 `json:"error,omitempty"`
}

// InitialState returns a fresh state positioned on the company step.
func InitialState() State {
	return State{
		CurrentStep:       StepCompany,
		UploadedFiles:     []domain.UploadedFile{},
		SelectedStandards: []string{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.UploadedFiles = slices.Clone(s.UploadedFiles)
	s.SelectedStandards = slices.Clone(s.SelectedStandards)
	s.ExtractedGoals = s.ExtractedGoals.Clone()
	return s
}

// HasStandard reports whether the standard id is selected.
func (s State) HasStandard(id string) bool {
	return slices.Contains(s.SelectedStandards, id)
}
