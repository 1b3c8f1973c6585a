package cli

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/alexanderramin/onboarding/internal/teatest"
	"github.com/alexanderramin/onboarding/internal/testutil"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeExtractor struct {
	mu    sync.Mutex
	goals *domain.GoalCollection
	err   error
	block bool // wait for cancellation instead of returning
	calls [][]domain.UploadedFile
}

func (f *fakeExtractor) Extract(ctx context.Context, files []domain.UploadedFile, _ []string) (*domain.GoalCollection, error) {
	f.mu.Lock()
	f.calls = append(f.calls, files)
	block := f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.goals, f.err
}

type fakeTemplates struct{ goals *domain.GoalCollection }

func (f fakeTemplates) FromStandards([]string) *domain.GoalCollection { return f.goals }

type fakeCompleter struct {
	mu   sync.Mutex
	err  error
	seen []onboarding.Completion
}

func (f *fakeCompleter) Complete(_ context.Context, c onboarding.Completion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, c)
	return f.err
}

type fakeIdentity struct{ email string }

func (f fakeIdentity) Email(context.Context) (string, error) {
	if f.email == "" {
		return "", errors.New("signed out")
	}
	return f.email, nil
}

// ── Harness ──────────────────────────────────────────────────────────────────

type harness struct {
	wiz       *onboarding.Wizard
	extractor *fakeExtractor
	completer *fakeCompleter
	identity  fakeIdentity
}

// newHarness builds a wizard over initial with instant fakes.
func newHarness(initial onboarding.State) *harness {
	h := &harness{
		extractor: &fakeExtractor{goals: testutil.NewTestGoals()},
		completer: &fakeCompleter{},
		identity:  fakeIdentity{email: "jo@acme.example"},
	}
	store := onboarding.NewStore(initial)
	h.wiz = onboarding.NewWizard(store, h.extractor, fakeTemplates{goals: testutil.NewTestGoals()}, h.completer, &h.identity,
		onboarding.WithClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }))
	return h
}

// stateAt returns a valid state positioned on step.
func stateAt(step onboarding.Step) onboarding.State {
	s := onboarding.InitialState()
	s.CurrentStep = step
	s.Company = testutil.NewTestCompany()
	if step >= onboarding.StepUpload {
		s.SelectedStandards = []string{"iso-14001"}
	}
	if step >= onboarding.StepExtract {
		s.ExtractedGoals = testutil.NewTestGoals()
	}
	return s
}

// TestDriver wraps teatest.Driver with access to the wizard model.
type TestDriver struct {
	*teatest.Driver
	h *harness
}

func NewTestDriver(t *testing.T, h *harness) *TestDriver {
	t.Helper()
	m := newWizardModel(context.Background(), h.wiz)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()
	return &TestDriver{Driver: d, h: h}
}

func (d *TestDriver) model() wizardModel {
	return d.Model.(wizardModel)
}

func (d *TestDriver) State() onboarding.State {
	return d.h.wiz.State()
}

func (d *TestDriver) Step() onboarding.Step {
	return d.State().CurrentStep
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func onboardingCompletion() onboarding.Completion {
	return onboarding.Completion{
		Email:     "jo@acme.example",
		Company:   testutil.NewTestCompany(),
		Goals:     testutil.NewTestGoals(),
		Standards: []string{"iso-14001"},
	}
}
