package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type rowKind int

const (
	rowPillar rowKind = iota
	rowGoal
	rowTarget
)

// reviewRow is one line of the flattened pillar → goal → target tree.
type reviewRow struct {
	kind   rowKind
	pillar domain.PillarID
	goalID string
	target int
}

// reviewView lists the extracted goals and edits them in place.
type reviewView struct {
	sess   *session
	cursor int

	// form is non-nil while a goal or target is being edited.
	form  *huh.Form
	apply func() error
}

func newReviewView(s *session) *reviewView {
	return &reviewView{sess: s}
}

func (v *reviewView) Init() tea.Cmd { return nil }

func (v *reviewView) goals() *domain.GoalCollection {
	return v.sess.wiz.State().ExtractedGoals
}

func (v *reviewView) rows() []reviewRow {
	c := v.goals()
	if c == nil {
		return nil
	}
	var rows []reviewRow
	for _, p := range c.Pillars {
		rows = append(rows, reviewRow{kind: rowPillar, pillar: p.ID})
		for _, g := range p.Goals {
			rows = append(rows, reviewRow{kind: rowGoal, pillar: p.ID, goalID: g.ID})
			for i := range g.Targets {
				rows = append(rows, reviewRow{kind: rowTarget, pillar: p.ID, goalID: g.ID, target: i})
			}
		}
	}
	return rows
}

func (v *reviewView) current() (reviewRow, bool) {
	rows := v.rows()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return reviewRow{}, false
	}
	return rows[v.cursor], true
}

// moveTo places the cursor on the first row matching fn.
func (v *reviewView) moveTo(fn func(reviewRow) bool) {
	for i, r := range v.rows() {
		if fn(r) {
			v.cursor = i
			return
		}
	}
}

func (v *reviewView) clampCursor() {
	if n := len(v.rows()); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *reviewView) findGoal(r reviewRow) (domain.Goal, bool) {
	p, ok := v.goals().Pillar(r.pillar)
	if !ok {
		return domain.Goal{}, false
	}
	for _, g := range p.Goals {
		if g.ID == r.goalID {
			return g, true
		}
	}
	return domain.Goal{}, false
}

func (v *reviewView) Update(msg tea.Msg) (stepView, tea.Cmd) {
	if v.form != nil {
		return v.updateForm(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	wiz := v.sess.wiz
	row, hasRow := v.current()
	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows())-1 {
			v.cursor++
		}
	case "n":
		if !hasRow {
			return v, nil
		}
		id, err := wiz.AddGoal(row.pillar)
		if err != nil {
			return v, notice(err.Error())
		}
		v.moveTo(func(r reviewRow) bool { return r.kind == rowGoal && r.goalID == id })
		return v, v.editGoal(reviewRow{kind: rowGoal, pillar: row.pillar, goalID: id})
	case "t":
		if !hasRow || row.kind == rowPillar {
			return v, nil
		}
		if err := wiz.AddTarget(row.pillar, row.goalID); err != nil {
			return v, notice(err.Error())
		}
		g, _ := v.findGoal(row)
		added := reviewRow{kind: rowTarget, pillar: row.pillar, goalID: row.goalID, target: len(g.Targets) - 1}
		v.moveTo(func(r reviewRow) bool { return r == added })
		return v, v.editTarget(added)
	case "e", "enter":
		if !hasRow {
			return v, nil
		}
		switch row.kind {
		case rowGoal:
			return v, v.editGoal(row)
		case rowTarget:
			return v, v.editTarget(row)
		}
	case "d", "x":
		if !hasRow {
			return v, nil
		}
		var err error
		switch row.kind {
		case rowGoal:
			err = wiz.RemoveGoal(row.pillar, row.goalID)
		case rowTarget:
			err = wiz.RemoveTarget(row.pillar, row.goalID, row.target)
		}
		if err != nil {
			return v, notice(err.Error())
		}
		v.clampCursor()
	case "c":
		if err := wiz.ConfirmGoals(); err != nil {
			return v, notice(err.Error())
		}
	case "b":
		_ = wiz.Back()
	}
	return v, nil
}

func (v *reviewView) editGoal(r reviewRow) tea.Cmd {
	g, ok := v.findGoal(r)
	if !ok {
		return nil
	}
	values := goalValuesFrom(g)
	v.form = goalForm(values)
	v.apply = func() error {
		return v.sess.wiz.UpdateGoal(r.pillar, r.goalID, values.patch())
	}
	return v.form.Init()
}

func (v *reviewView) editTarget(r reviewRow) tea.Cmd {
	g, ok := v.findGoal(r)
	if !ok || r.target < 0 || r.target >= len(g.Targets) {
		return nil
	}
	values := targetValuesFrom(g.Targets[r.target])
	v.form = targetForm(values)
	v.apply = func() error {
		return v.sess.wiz.UpdateTarget(r.pillar, r.goalID, r.target, values.patch())
	}
	return v.form.Init()
}

func (v *reviewView) updateForm(msg tea.Msg) (stepView, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		v.closeForm()
		return v, notice("Edit cancelled.")
	}
	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		return v, v.commit()
	}
	return v, cmd
}

// commit applies the open editor's values.
func (v *reviewView) commit() tea.Cmd {
	apply := v.apply
	v.closeForm()
	if apply == nil {
		return nil
	}
	if err := apply(); err != nil {
		return notice(err.Error())
	}
	return notice("Saved.")
}

func (v *reviewView) closeForm() {
	v.form = nil
	v.apply = nil
}

func (v *reviewView) View() string {
	if v.form != nil {
		return v.form.View()
	}
	c := v.goals()
	if c == nil {
		return formatter.Dim("No goals extracted.")
	}

	var b strings.Builder
	b.WriteString(formatter.Dim(fmt.Sprintf("%s · confidence %.0f%%", formatter.GoalSummary(c), c.Confidence*100)))
	b.WriteString("\n\n")
	for i, r := range v.rows() {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("› ")
		}
		b.WriteString(marker)
		b.WriteString(v.renderRow(r))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *reviewView) renderRow(r reviewRow) string {
	p, _ := v.goals().Pillar(r.pillar)
	switch r.kind {
	case rowPillar:
		return formatter.PillarStyle(p.ID).Bold(true).Render(fmt.Sprintf("%s (%d)", p.Name, len(p.Goals)))
	case rowGoal:
		g, _ := v.findGoal(r)
		return "  " + formatter.GoalLine(g)
	default:
		g, _ := v.findGoal(r)
		if r.target >= len(g.Targets) {
			return ""
		}
		return "      " + formatter.TargetLine(g.Targets[r.target])
	}
}

func (v *reviewView) ShortHelp() []key.Binding {
	if v.form != nil {
		return []key.Binding{binding("enter", "next field"), binding("esc", "cancel edit")}
	}
	return []key.Binding{
		binding("e", "edit"),
		binding("n", "new goal"),
		binding("t", "new target"),
		binding("d", "delete"),
		binding("c", "confirm"),
		binding("b", "back"),
	}
}

func (v *reviewView) Capturing() bool { return v.form != nil }
