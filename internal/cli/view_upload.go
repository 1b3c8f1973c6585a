package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// uploadView selects compliance standards and queues PDF reports. Rows
// list the standards first, then the queued files.
type uploadView struct {
	sess   *session
	cursor int
	adding bool
	input  textinput.Model
}

func newUploadView(s *session) *uploadView {
	ti := textinput.New()
	ti.Placeholder = "path/to/report.pdf (globs allowed)"
	ti.Prompt = "File: "
	ti.PromptStyle = formatter.StyleHeader
	ti.CharLimit = 1024
	return &uploadView{sess: s, input: ti}
}

func (v *uploadView) Init() tea.Cmd { return nil }

func (v *uploadView) rowCount() int {
	return len(domain.Standards) + len(v.sess.wiz.State().UploadedFiles)
}

// fileIndex maps the cursor to an upload index, or -1 on a standard row.
func (v *uploadView) fileIndex() int {
	if v.cursor < len(domain.Standards) {
		return -1
	}
	return v.cursor - len(domain.Standards)
}

func (v *uploadView) Update(msg tea.Msg) (stepView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if v.adding {
		if ok {
			switch keyMsg.Type {
			case tea.KeyEsc:
				v.stopAdding()
				return v, nil
			case tea.KeyEnter:
				path := strings.TrimSpace(v.input.Value())
				v.stopAdding()
				return v, v.addPath(path)
			}
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	if !ok {
		return v, nil
	}

	wiz := v.sess.wiz
	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < v.rowCount()-1 {
			v.cursor++
		}
	case " ", "enter":
		if v.fileIndex() < 0 {
			if err := wiz.ToggleStandard(domain.Standards[v.cursor].ID); err != nil {
				return v, notice(err.Error())
			}
		}
	case "a":
		v.adding = true
		v.input.Reset()
		return v, v.input.Focus()
	case "x", "delete":
		if i := v.fileIndex(); i >= 0 {
			if err := wiz.RemoveFile(i); err != nil {
				return v, notice(err.Error())
			}
			if v.cursor >= v.rowCount() {
				v.cursor = v.rowCount() - 1
			}
		}
	case "p":
		return v, request(processRequestMsg{})
	case "s":
		// Failures are shown in the banner.
		_ = wiz.SkipUpload()
	case "b":
		_ = wiz.Back()
	}
	return v, nil
}

func (v *uploadView) stopAdding() {
	v.adding = false
	v.input.Blur()
}

// addPath queues every PDF matching path and reports what was rejected.
func (v *uploadView) addPath(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	paths, err := filepath.Glob(path)
	if err != nil {
		return notice(fmt.Sprintf("Invalid pattern: %v", err))
	}
	if len(paths) == 0 {
		paths = []string{path}
	}

	var files []domain.UploadedFile
	var problems []string
	for _, p := range paths {
		f, err := onboarding.FileFromPath(p)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", p, err))
			continue
		}
		files = append(files, f)
	}
	added, rejected, err := v.sess.wiz.AddFiles(files...)
	if err != nil {
		return notice(err.Error())
	}
	for _, r := range rejected {
		problems = append(problems, fmt.Sprintf("%s: %s", r.File.Name, r.Reason))
	}

	msg := fmt.Sprintf("Added %d file(s).", len(added))
	if len(problems) > 0 {
		msg += " Skipped " + strings.Join(problems, "; ")
	}
	return notice(msg)
}

func (v *uploadView) View() string {
	st := v.sess.wiz.State()
	var b strings.Builder

	b.WriteString(formatter.Bold("Compliance standards"))
	b.WriteString(formatter.Dim(fmt.Sprintf("  (%d selected)", len(st.SelectedStandards))))
	b.WriteString("\n")
	for i, s := range domain.Standards {
		box := "[ ]"
		if st.HasStandard(s.ID) {
			box = formatter.StyleGreen.Render("[x]")
		}
		b.WriteString(v.row(i, box+" "+s.Name))
	}

	b.WriteString("\n")
	b.WriteString(formatter.Bold("Sustainability reports"))
	b.WriteString("\n")
	if len(st.UploadedFiles) == 0 {
		b.WriteString(formatter.Dim("    No files yet. Press a to add a PDF, or s to continue with standards only."))
		b.WriteString("\n")
	}
	for i, f := range st.UploadedFiles {
		line := fmt.Sprintf("%s %s", formatter.Truncate(f.Name, 60), formatter.Dim(onboarding.FormatFileSize(f.Size)))
		b.WriteString(v.row(len(domain.Standards)+i, line))
	}

	if v.adding {
		b.WriteString("\n")
		b.WriteString(v.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (v *uploadView) row(i int, text string) string {
	marker := "  "
	if i == v.cursor && !v.adding {
		marker = formatter.StyleHeader.Render("› ")
	}
	return "  " + marker + text + "\n"
}

func (v *uploadView) ShortHelp() []key.Binding {
	if v.adding {
		return []key.Binding{binding("enter", "add"), binding("esc", "cancel")}
	}
	return []key.Binding{
		binding("space", "toggle"),
		binding("a", "add file"),
		binding("x", "remove"),
		binding("p", "process"),
		binding("s", "skip upload"),
		binding("b", "back"),
	}
}

func (v *uploadView) Capturing() bool { return v.adding }
