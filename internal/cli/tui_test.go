package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/alexanderramin/onboarding/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUI_StartsOnCompanyStep(t *testing.T) {
	d := NewTestDriver(t, newHarness(onboarding.InitialState()))

	_, ok := d.model().view.(*companyView)
	require.True(t, ok)
	view := d.View()
	assert.Contains(t, view, "Sustainability Onboarding")
	assert.Contains(t, view, "Step 1 of 4")
	assert.Contains(t, view, "Company Name")
}

func TestTUI_CompanySubmitAdvancesToUpload(t *testing.T) {
	d := NewTestDriver(t, newHarness(onboarding.InitialState()))

	cv := d.model().view.(*companyView)
	*cv.values = *companyValuesFrom(testutil.NewTestCompany())
	cv.submit()
	require.Equal(t, onboarding.StepUpload, d.Step())
	assert.Equal(t, "Acme DC", d.State().Company.Name)

	d.Send(tea.WindowSizeMsg{Width: 120, Height: 40})
	_, ok := d.model().view.(*uploadView)
	assert.True(t, ok, "view follows the wizard step")
	assert.Contains(t, d.View(), "Compliance standards")
}

func TestTUI_CompanySubmitRejectsInvalidRecord(t *testing.T) {
	d := NewTestDriver(t, newHarness(onboarding.InitialState()))

	cv := d.model().view.(*companyView)
	cv.values.Name = "Acme"
	cv.values.Website = "not a site"
	cv.submit()

	assert.Equal(t, onboarding.StepCompany, d.Step())
	view := d.View()
	assert.Contains(t, view, "Please enter a valid website URL")
	assert.Contains(t, view, "Contact email is required")
}

func TestTUI_UploadToggleStandardAndSkip(t *testing.T) {
	s := stateAt(onboarding.StepUpload)
	s.SelectedStandards = []string{}
	d := NewTestDriver(t, newHarness(s))

	d.PressSpace()
	assert.Equal(t, []string{"eu-taxonomy"}, d.State().SelectedStandards)
	d.PressSpace()
	assert.Empty(t, d.State().SelectedStandards)

	d.PressKey('s')
	assert.Equal(t, onboarding.StepUpload, d.Step())
	assert.Contains(t, d.View(), onboarding.MsgNoStandards)

	d.PressEsc()
	assert.Empty(t, d.State().Error, "esc dismisses the banner")

	d.PressDown()
	d.PressSpace()
	d.PressKey('s')
	require.Equal(t, onboarding.StepExtract, d.Step())
	assert.True(t, d.State().SkipFileUpload)
	_, ok := d.model().view.(*reviewView)
	assert.True(t, ok)
}

func TestTUI_UploadAddFileByPath(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o644))

	d := NewTestDriver(t, newHarness(stateAt(onboarding.StepUpload)))

	d.PressKey('a')
	require.True(t, d.model().view.Capturing())
	d.Type(filepath.Join(dir, "*"))
	d.PressEnter()

	files := d.State().UploadedFiles
	require.Len(t, files, 1)
	assert.Equal(t, "report.pdf", files[0].Name)
	view := d.View()
	assert.Contains(t, view, "Added 1 file(s).")
	assert.Contains(t, view, "notes.txt: only PDF files are supported")

	// Move to the file row and remove it.
	for range domain.Standards {
		d.PressDown()
	}
	d.PressKey('x')
	assert.Empty(t, d.State().UploadedFiles)
}

func TestTUI_ProcessFilesAdvancesToReview(t *testing.T) {
	s := stateAt(onboarding.StepUpload)
	s.UploadedFiles = []domain.UploadedFile{{Name: "r.pdf", Size: 10, Path: "/tmp/r.pdf"}}
	h := newHarness(s)
	d := NewTestDriver(t, h)

	d.PressKey('p')

	require.Equal(t, onboarding.StepExtract, d.Step())
	assert.False(t, d.State().IsProcessing)
	assert.Len(t, h.extractor.calls, 1)
	assert.Equal(t, 1, d.State().ExtractedGoals.TotalGoals())
	assert.True(t, d.Received(extractDoneMsg{}))
	assert.Contains(t, d.View(), "Cut Scope 2 emissions")
}

func TestTUI_ProcessWithoutFilesShowsBanner(t *testing.T) {
	h := newHarness(stateAt(onboarding.StepUpload))
	d := NewTestDriver(t, h)

	d.PressKey('p')

	assert.Equal(t, onboarding.StepUpload, d.Step())
	assert.Contains(t, d.View(), onboarding.MsgNoFiles)
	assert.Empty(t, h.extractor.calls)
}

func TestTUI_ProcessFailureShowsBanner(t *testing.T) {
	s := stateAt(onboarding.StepUpload)
	s.UploadedFiles = []domain.UploadedFile{{Name: "r.pdf", Size: 10}}
	h := newHarness(s)
	h.extractor.err = fmt.Errorf("boom")
	d := NewTestDriver(t, h)

	d.PressKey('p')

	assert.Equal(t, onboarding.StepUpload, d.Step())
	assert.False(t, d.State().IsProcessing)
	assert.Contains(t, d.View(), onboarding.MsgProcessingFailed)
}

func TestTUI_EscCancelsProcessing(t *testing.T) {
	s := stateAt(onboarding.StepUpload)
	s.UploadedFiles = []domain.UploadedFile{{Name: "r.pdf", Size: 10}}
	h := newHarness(s)
	h.extractor.block = true
	d := NewTestDriver(t, h)

	d.PressKey('p')
	require.True(t, d.State().IsProcessing)
	assert.Contains(t, d.View(), "Analyzing your reports")

	d.PressKey('b')
	assert.Equal(t, onboarding.StepUpload, d.Step(), "keys are ignored while busy")

	d.PressEsc()
	assert.False(t, d.State().IsProcessing)
	assert.Equal(t, onboarding.StepUpload, d.Step())
	assert.Contains(t, d.View(), "Cancelled.")
}

func TestTUI_ReviewEditsGoals(t *testing.T) {
	d := NewTestDriver(t, newHarness(stateAt(onboarding.StepExtract)))
	rv := d.model().view.(*reviewView)

	// Rows: env pillar, goal, target, social pillar, governance pillar.
	require.Len(t, rv.rows(), 5)

	d.PressDown()
	d.PressKey('t')
	require.True(t, rv.Capturing(), "new target opens the editor")
	goals := d.State().ExtractedGoals
	env, _ := goals.Pillar(domain.PillarEnvironment)
	require.Len(t, env.Goals[0].Targets, 2)

	d.PressEsc()
	assert.False(t, rv.Capturing())

	rv.cursor = 3 // social pillar
	d.PressKey('n')
	require.True(t, rv.Capturing())
	d.PressEsc()
	social, _ := d.State().ExtractedGoals.Pillar(domain.PillarSocial)
	require.Len(t, social.Goals, 1)
	assert.Equal(t, domain.CategorySocial, social.Goals[0].Category)

	rv.cursor = 1 // environment goal
	d.PressKey('d')
	env, _ = d.State().ExtractedGoals.Pillar(domain.PillarEnvironment)
	assert.Empty(t, env.Goals)

	d.PressKey('c')
	assert.Equal(t, onboarding.StepConfirm, d.Step())
}

func TestTUI_ReviewCommitAppliesEditorValues(t *testing.T) {
	d := NewTestDriver(t, newHarness(stateAt(onboarding.StepExtract)))
	rv := d.model().view.(*reviewView)

	rv.cursor = 2 // target
	d.PressKey('e')
	require.NotNil(t, rv.apply)

	progress := 100
	status := domain.TargetAchieved
	rv.apply = func() error {
		return d.h.wiz.UpdateTarget(domain.PillarEnvironment, "env-test-1", 0,
			domain.TargetPatch{Status: &status, Progress: &progress})
	}
	cmd := rv.commit()
	require.NotNil(t, cmd)
	assert.Equal(t, noticeMsg{text: "Saved."}, cmd())

	env, _ := d.State().ExtractedGoals.Pillar(domain.PillarEnvironment)
	assert.Equal(t, domain.TargetAchieved, env.Goals[0].Targets[0].Status)
	assert.False(t, rv.Capturing())
}

func TestTUI_FinishCompletesAndQuits(t *testing.T) {
	h := newHarness(stateAt(onboarding.StepConfirm))
	d := NewTestDriver(t, h)
	assert.Contains(t, d.View(), "Acme DC")

	d.PressKey('f')

	require.True(t, d.model().Completed())
	assert.True(t, d.Quitting)
	require.Len(t, h.completer.seen, 1)
	c := h.completer.seen[0]
	assert.Equal(t, "jo@acme.example", c.Email)
	assert.Equal(t, []string{"iso-14001"}, c.Standards)
	assert.Equal(t, 1, c.Goals.TotalGoals())
}

func TestTUI_FinishFailuresShowBanner(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
		want  string
	}{
		{
			name:  "goals not saved",
			setup: func(h *harness) { h.completer.err = fmt.Errorf("%w: 500", onboarding.ErrGoalsNotSaved) },
			want:  onboarding.MsgGoalsNotSaved,
		},
		{
			name:  "user not saved",
			setup: func(h *harness) { h.completer.err = fmt.Errorf("%w: 500", onboarding.ErrUserNotSaved) },
			want:  onboarding.MsgUserNotSaved,
		},
		{
			name:  "no identity",
			setup: func(h *harness) { h.identity.email = "" },
			want:  onboarding.MsgIdentityMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(stateAt(onboarding.StepConfirm))
			tt.setup(h)
			d := NewTestDriver(t, h)

			d.PressKey('f')

			assert.False(t, d.model().Completed())
			assert.False(t, d.Quitting)
			assert.Equal(t, onboarding.StepConfirm, d.Step())
			assert.Contains(t, d.View(), tt.want)
		})
	}
}

func TestTUI_RestartNeedsConfirmation(t *testing.T) {
	d := NewTestDriver(t, newHarness(stateAt(onboarding.StepConfirm)))

	d.PressKey('r')
	assert.Contains(t, d.View(), "Restart onboarding?")
	d.PressKey('n')
	assert.Equal(t, onboarding.StepConfirm, d.Step())

	d.PressKey('r')
	d.PressKey('y')
	assert.Equal(t, onboarding.StepCompany, d.Step())
	assert.Equal(t, onboarding.InitialState(), d.State())
	_, ok := d.model().view.(*companyView)
	assert.True(t, ok)
}

func TestTUI_BackNavigation(t *testing.T) {
	d := NewTestDriver(t, newHarness(stateAt(onboarding.StepConfirm)))

	d.PressKey('b')
	assert.Equal(t, onboarding.StepExtract, d.Step())
	d.PressKey('b')
	assert.Equal(t, onboarding.StepUpload, d.Step())
	d.PressKey('b')
	assert.Equal(t, onboarding.StepCompany, d.Step())
}

func TestTUI_QuitKeys(t *testing.T) {
	t.Run("q on a list view", func(t *testing.T) {
		d := NewTestDriver(t, newHarness(stateAt(onboarding.StepUpload)))
		d.PressKey('q')
		assert.True(t, d.Quitting)
		assert.False(t, d.model().Completed())
	})
	t.Run("q types into the company form", func(t *testing.T) {
		d := NewTestDriver(t, newHarness(onboarding.InitialState()))
		d.PressKey('q')
		assert.False(t, d.Quitting)
	})
	t.Run("ctrl+c always quits", func(t *testing.T) {
		d := NewTestDriver(t, newHarness(onboarding.InitialState()))
		d.PressCtrlC()
		assert.True(t, d.Quitting)
	})
}

func TestRenderStepper(t *testing.T) {
	out := stripANSI(renderStepper(onboarding.StepExtract))
	assert.Contains(t, out, "Step 3 of 4")
	assert.Contains(t, out, "✔ Company Details")
	assert.Contains(t, out, "3. Review Goals")
	assert.Contains(t, out, "4. Confirmation")
}
