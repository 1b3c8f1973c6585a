package cli

import (
	"sort"
	"strings"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// companyView collects the company and contact details.
type companyView struct {
	sess   *session
	values *companyValues
	form   *huh.Form
}

func newCompanyView(s *session) *companyView {
	values := companyValuesFrom(s.wiz.State().Company)
	return &companyView{sess: s, values: values, form: companyForm(values)}
}

func (v *companyView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *companyView) Update(msg tea.Msg) (stepView, tea.Cmd) {
	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		return v, v.submit()
	}
	return v, cmd
}

// submit stores the form values and advances. When the record is still
// rejected the form is rebuilt so the user can correct it.
func (v *companyView) submit() tea.Cmd {
	v.sess.wiz.UpdateCompany(v.values.patch())
	if err := v.sess.wiz.SubmitCompany(); err != nil {
		v.form = companyForm(v.values)
		return v.form.Init()
	}
	return nil
}

func (v *companyView) View() string {
	var b strings.Builder
	if errs := v.sess.wiz.FieldErrors(); len(errs) > 0 {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(formatter.StyleRed.Render("✗ " + errs[k]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(v.form.View())
	return b.String()
}

func (v *companyView) ShortHelp() []key.Binding {
	return []key.Binding{
		binding("enter", "next field"),
		binding("shift+tab", "previous field"),
		binding("ctrl+c", "quit"),
	}
}

func (v *companyView) Capturing() bool { return true }
