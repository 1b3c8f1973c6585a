package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// session is the state shared by the root model and every step view.
type session struct {
	ctx    context.Context
	wiz    *onboarding.Wizard
	width  int
	height int
}

// stepView renders and drives one wizard step.
type stepView interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (stepView, tea.Cmd)
	View() string
	ShortHelp() []key.Binding
	// Capturing reports whether a form or text input owns the keyboard,
	// in which case single-letter global keys are passed through.
	Capturing() bool
}

// newStepView builds the view for step.
func newStepView(s *session, step onboarding.Step) stepView {
	switch step {
	case onboarding.StepUpload:
		return newUploadView(s)
	case onboarding.StepExtract:
		return newReviewView(s)
	case onboarding.StepConfirm:
		return newConfirmView(s)
	default:
		return newCompanyView(s)
	}
}

// Messages exchanged between the step views and the root model.
type (
	// processRequestMsg asks the root model to start goal extraction.
	processRequestMsg struct{}
	// finishRequestMsg asks the root model to save the onboarding.
	finishRequestMsg struct{}
	// extractDoneMsg carries an extraction result back to the update loop.
	extractDoneMsg struct {
		ticket onboarding.Ticket
		goals  *domain.GoalCollection
		err    error
	}
	// finishDoneMsg carries the save outcome back to the update loop.
	finishDoneMsg struct {
		ticket onboarding.Ticket
		err    error
	}
	// noticeMsg shows a transient line under the step content.
	noticeMsg struct{ text string }
)

func notice(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

func request(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func binding(keys, help string) key.Binding {
	k := strings.Split(keys, ",")
	return key.NewBinding(key.WithKeys(k...), key.WithHelp(k[0], help))
}

// renderHelp renders key hints for the bottom bar.
func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, formatter.StyleHeader.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim("  ·  "))
}
