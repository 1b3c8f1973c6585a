package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// wizardModel is the root bubbletea model. It owns the step view for the
// current wizard step and runs the extraction and save jobs off the
// update loop.
type wizardModel struct {
	sess    *session
	step    onboarding.Step
	view    stepView
	spinner spinner.Model
	notice  string

	// jobCancel aborts the in-flight extraction or save.
	jobCancel context.CancelFunc

	completed bool
	quitting  bool
}

func newWizardModel(ctx context.Context, wiz *onboarding.Wizard) wizardModel {
	sess := &session{ctx: ctx, wiz: wiz}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleHeader

	step := wiz.State().CurrentStep
	return wizardModel{
		sess:    sess,
		step:    step,
		view:    newStepView(sess, step),
		spinner: sp,
	}
}

// Completed reports whether the onboarding was saved.
func (m wizardModel) Completed() bool { return m.completed }

func (m wizardModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.sess.width = msg.Width
		m.sess.height = msg.Height

	case tea.KeyMsg:
		if handled, next, cmd := m.handleKey(msg); handled {
			return next, cmd
		}
		m.notice = ""

	case spinner.TickMsg:
		if !m.sess.wiz.State().IsProcessing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case processRequestMsg:
		return m.startProcessing()

	case finishRequestMsg:
		return m.startFinish()

	case extractDoneMsg:
		m.releaseJob()
		if err := m.sess.wiz.FinishProcessing(msg.ticket, msg.goals, msg.err); errors.Is(err, onboarding.ErrStaleResult) {
			return m, nil
		}
		return m.sync(nil)

	case finishDoneMsg:
		m.releaseJob()
		err := m.sess.wiz.EndFinish(msg.ticket, msg.err)
		if errors.Is(err, onboarding.ErrStaleResult) {
			return m, nil
		}
		if err == nil {
			m.completed = true
			m.quitting = true
			return m, tea.Quit
		}
		return m.sync(nil)
	}

	next, cmd := m.view.Update(msg)
	m.view = next
	return m.sync(cmd)
}

// handleKey applies the global keys. It reports false when the key should
// go to the step view.
func (m wizardModel) handleKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.releaseJob()
		m.quitting = true
		return true, m, tea.Quit
	}

	st := m.sess.wiz.State()
	if st.IsProcessing {
		if msg.Type == tea.KeyEsc {
			m.releaseJob()
			m.sess.wiz.Cancel()
			m.notice = "Cancelled."
		}
		return true, m, nil
	}

	if msg.Type == tea.KeyEsc && st.Error != "" {
		m.sess.wiz.DismissError()
		return true, m, nil
	}
	if !m.view.Capturing() && msg.String() == "q" {
		m.quitting = true
		return true, m, tea.Quit
	}
	return false, m, nil
}

func (m wizardModel) startProcessing() (tea.Model, tea.Cmd) {
	ticket, job, err := m.sess.wiz.StartProcessing()
	if err != nil {
		return m, nil
	}
	ctx := m.startJob()
	m.notice = ""
	return m, tea.Batch(
		func() tea.Msg {
			goals, err := job(ctx)
			return extractDoneMsg{ticket: ticket, goals: goals, err: err}
		},
		m.spinner.Tick,
	)
}

func (m wizardModel) startFinish() (tea.Model, tea.Cmd) {
	ticket, job, err := m.sess.wiz.StartFinish()
	if err != nil {
		return m, nil
	}
	ctx := m.startJob()
	m.notice = ""
	return m, tea.Batch(
		func() tea.Msg {
			return finishDoneMsg{ticket: ticket, err: job(ctx)}
		},
		m.spinner.Tick,
	)
}

// startJob derives a cancellable context for one async job.
func (m *wizardModel) startJob() context.Context {
	ctx, cancel := context.WithCancel(m.sess.ctx)
	m.jobCancel = cancel
	return ctx
}

func (m *wizardModel) releaseJob() {
	if m.jobCancel != nil {
		m.jobCancel()
		m.jobCancel = nil
	}
}

// sync rebuilds the step view when the wizard changed step.
func (m wizardModel) sync(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	step := m.sess.wiz.State().CurrentStep
	if step == m.step {
		return m, cmd
	}
	m.step = step
	m.view = newStepView(m.sess, step)
	return m, tea.Batch(cmd, m.view.Init())
}

func (m wizardModel) View() string {
	if m.quitting {
		return ""
	}
	st := m.sess.wiz.State()

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("Sustainability Onboarding"))
	b.WriteString("\n")
	b.WriteString(renderStepper(st.CurrentStep))
	b.WriteString("\n\n")

	if st.Error != "" {
		b.WriteString(formatter.ErrorBanner(st.Error))
		b.WriteString("\n\n")
	}

	if st.IsProcessing {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(processingLabel(st.CurrentStep))
		b.WriteString("\n\n")
		b.WriteString(renderHelp([]key.Binding{binding("esc", "cancel"), binding("ctrl+c", "quit")}))
		return b.String()
	}

	b.WriteString(m.view.View())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(formatter.Dim(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	help := m.view.ShortHelp()
	if st.Error != "" {
		help = append(help, binding("esc", "dismiss"))
	}
	if !m.view.Capturing() {
		help = append(help, binding("q", "quit"))
	}
	b.WriteString(renderHelp(help))
	return b.String()
}

func processingLabel(step onboarding.Step) string {
	if step == onboarding.StepConfirm {
		return "Saving your goals…"
	}
	return "Analyzing your reports…"
}

// renderStepper renders the progress bar and the step sequence with the
// current step highlighted.
func renderStepper(current onboarding.Step) string {
	pct := (int(current) + 1) * 100 / onboarding.StepCount
	labels := make([]string, onboarding.StepCount)
	for i, s := range onboarding.Steps {
		label := fmt.Sprintf("%d. %s", i+1, s.Label)
		switch {
		case onboarding.Step(i) == current:
			labels[i] = formatter.StyleBold.Render(label)
		case onboarding.Step(i) < current:
			labels[i] = formatter.StyleGreen.Render("✔ " + s.Label)
		default:
			labels[i] = formatter.Dim(label)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		formatter.RenderProgress(pct, 30)+formatter.Dim(fmt.Sprintf("  Step %d of %d", int(current)+1, onboarding.StepCount)),
		strings.Join(labels, formatter.Dim("  ›  ")),
	)
}
