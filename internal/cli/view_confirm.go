package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmView summarizes the onboarding before it is saved.
type confirmView struct {
	sess       *session
	restarting bool
}

func newConfirmView(s *session) *confirmView {
	return &confirmView{sess: s}
}

func (v *confirmView) Init() tea.Cmd { return nil }

func (v *confirmView) Update(msg tea.Msg) (stepView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	if v.restarting {
		v.restarting = false
		if v.sess.wiz.Restart(keyMsg.String() == "y") {
			return v, notice("Onboarding restarted.")
		}
		return v, nil
	}

	switch keyMsg.String() {
	case "f", "enter":
		return v, request(finishRequestMsg{})
	case "b":
		_ = v.sess.wiz.Back()
	case "r":
		v.restarting = true
	}
	return v, nil
}

func (v *confirmView) View() string {
	st := v.sess.wiz.State()
	var b strings.Builder

	b.WriteString(formatter.RenderBox("Company", formatter.KeyValue([][2]string{
		{"Name", st.Company.Name},
		{"Website", st.Company.Website},
		{"Contact", contactLine(st.Company)},
	})))
	b.WriteString("\n")

	standards := make([]string, len(st.SelectedStandards))
	for i, id := range st.SelectedStandards {
		standards[i] = domain.CoalesceStr(domain.StandardName(id), id)
	}
	source := fmt.Sprintf("%d report(s)", len(st.UploadedFiles))
	if st.SkipFileUpload {
		source = "standards only"
	}
	b.WriteString(formatter.KeyValue([][2]string{
		{"Standards", strings.Join(standards, ", ")},
		{"Source", source},
		{"Goals", formatter.GoalSummary(st.ExtractedGoals)},
	}))
	b.WriteString("\n")
	b.WriteString(formatter.RenderGoals(st.ExtractedGoals))

	if v.restarting {
		b.WriteString("\n")
		b.WriteString(formatter.StyleYellow.Render("Restart onboarding? All progress will be lost. (y/N)"))
	}
	return b.String()
}

func contactLine(c domain.CompanyData) string {
	line := fmt.Sprintf("%s <%s>", c.ContactName, c.ContactEmail)
	if c.ContactRole != "" {
		line += ", " + c.ContactRole
	}
	return line
}

func (v *confirmView) ShortHelp() []key.Binding {
	if v.restarting {
		return []key.Binding{binding("y", "restart"), binding("n", "keep")}
	}
	return []key.Binding{
		binding("f", "finish"),
		binding("b", "back"),
		binding("r", "restart"),
	}
}

func (v *confirmView) Capturing() bool { return v.restarting }
