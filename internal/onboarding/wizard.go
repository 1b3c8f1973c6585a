package onboarding

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"go.uber.org/zap"
)

// Banner messages shown for collaborator failures.
const (
	MsgProcessingFailed = "An error occurred while processing your files. Please try again."
	MsgTemplatesFailed  = "An error occurred while generating goals. Please try again."
	MsgIdentityMissing  = "User information is incomplete or missing. Please login again."
	MsgUserNotSaved     = "Failed to save user. Please try again."
	MsgGoalsNotSaved    = "User saved but goals could not be saved. You may need to set up your goals again."
	MsgSaveFailed       = "An error occurred while saving your goals. Please try again."
)

// DefaultMaxFileSize bounds a single uploaded report (50 MB).
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

var (
	// ErrBusy is returned when a mutating handler runs while an async
	// operation is in flight.
	ErrBusy = errors.New("operation in progress")
	// ErrWrongStep is returned when a handler runs outside its step.
	ErrWrongStep = errors.New("not available on this step")
	// ErrNoGoals is returned when goal editing is attempted before extraction.
	ErrNoGoals = errors.New("no extracted goals")
	// ErrStaleResult is returned when an async result arrives after the
	// wizard moved on.
	ErrStaleResult = errors.New("result discarded: wizard moved on")
)

// Rejection explains why an uploaded file was not queued.
type Rejection struct {
	File   domain.UploadedFile
	Reason string
}

// ExtractJob performs the extraction I/O for a started processing run.
type ExtractJob func(ctx context.Context) (*domain.GoalCollection, error)

// FinishJob performs the persistence I/O for a started save.
type FinishJob func(ctx context.Context) error

// Wizard implements the step handlers. Each handler checks its guard and
// drives the injected Store; I/O is delegated to the collaborators.
type Wizard struct {
	store     *Store
	extractor GoalExtractor
	templates TemplateSource
	completer Completer
	identity  EmailSource

	now         func() time.Time
	maxFileSize int64
	logger      *zap.Logger

	mu          sync.Mutex
	fieldErrors FieldErrors
}

// WizardOption configures a Wizard.
type WizardOption func(*Wizard)

// WithClock overrides the time source used for goal ids and due dates.
func WithClock(now func() time.Time) WizardOption {
	return func(w *Wizard) { w.now = now }
}

// WithMaxFileSize overrides the per-file upload limit.
func WithMaxFileSize(n int64) WizardOption {
	return func(w *Wizard) {
		if n > 0 {
			w.maxFileSize = n
		}
	}
}

// WithWizardLogger attaches a logger.
func WithWizardLogger(l *zap.Logger) WizardOption {
	return func(w *Wizard) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWizard creates a Wizard over store.
func NewWizard(store *Store, extractor GoalExtractor, templates TemplateSource, completer Completer, identity EmailSource, opts ...WizardOption) *Wizard {
	w := &Wizard{
		store:       store,
		extractor:   extractor,
		templates:   templates,
		completer:   completer,
		identity:    identity,
		now:         time.Now,
		maxFileSize: DefaultMaxFileSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	store.Subscribe(func(prev, next State) {
		if prev.CurrentStep != next.CurrentStep {
			w.clearFieldErrors()
		}
	})
	return w
}

// Store returns the underlying store.
func (w *Wizard) Store() *Store { return w.store }

// State is shorthand for Store().State().
func (w *Wizard) State() State { return w.store.State() }

func (w *Wizard) busy() error {
	if w.store.State().IsProcessing {
		return ErrBusy
	}
	return nil
}

// uploadEditable guards the file and standard edits of the upload step.
func (w *Wizard) uploadEditable() error {
	s := w.store.State()
	if s.CurrentStep != StepUpload {
		return ErrWrongStep
	}
	if s.IsProcessing {
		return ErrBusy
	}
	return nil
}

// ── Company step ─────────────────────────────────────────────────────────────

// UpdateCompany merges p into the company record and clears the field
// errors of every edited field.
func (w *Wizard) UpdateCompany(p domain.CompanyPatch) {
	w.store.Dispatch(UpdateCompany{Patch: p})

	w.mu.Lock()
	defer w.mu.Unlock()
	for field, set := range map[string]bool{
		FieldName:         p.Name != nil,
		FieldWebsite:      p.Website != nil,
		FieldContactEmail: p.ContactEmail != nil,
		FieldContactName:  p.ContactName != nil,
		FieldContactRole:  p.ContactRole != nil,
	} {
		if set {
			delete(w.fieldErrors, field)
		}
	}
}

// FieldErrors returns the current company validation errors.
func (w *Wizard) FieldErrors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.fieldErrors) == 0 {
		return nil
	}
	out := make(FieldErrors, len(w.fieldErrors))
	for k, v := range w.fieldErrors {
		out[k] = v
	}
	return out
}

func (w *Wizard) clearFieldErrors() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fieldErrors = nil
}

// SubmitCompany validates the company record and advances to the upload
// step. Validation failures are returned and recorded per field.
func (w *Wizard) SubmitCompany() error {
	s := w.store.State()
	if s.CurrentStep != StepCompany {
		return ErrWrongStep
	}
	if errs := ValidateCompany(s.Company); errs != nil {
		w.mu.Lock()
		w.fieldErrors = errs
		w.mu.Unlock()
		return errs
	}
	w.store.Dispatch(AdvanceStep{})
	return nil
}

// ── Upload step ──────────────────────────────────────────────────────────────

// AddFiles queues PDF files, dropping non-PDFs, oversized files and files
// whose name and size match an already queued upload.
func (w *Wizard) AddFiles(files ...domain.UploadedFile) ([]domain.UploadedFile, []Rejection, error) {
	if err := w.uploadEditable(); err != nil {
		return nil, nil, err
	}
	current := w.store.State().UploadedFiles
	next := slices.Clone(current)
	var added []domain.UploadedFile
	var rejected []Rejection

	for _, f := range files {
		switch {
		case !f.IsPDF():
			rejected = append(rejected, Rejection{File: f, Reason: "only PDF files are supported"})
		case f.Size > w.maxFileSize:
			rejected = append(rejected, Rejection{File: f, Reason: fmt.Sprintf("larger than %s", FormatFileSize(w.maxFileSize))})
		case slices.ContainsFunc(next, f.SameAs):
			rejected = append(rejected, Rejection{File: f, Reason: "already uploaded"})
		default:
			next = append(next, f)
			added = append(added, f)
		}
	}
	if len(added) > 0 {
		w.store.Dispatch(ReplaceUploadedFiles{Files: next})
	}
	return added, rejected, nil
}

// RemoveFile drops the upload at index i.
func (w *Wizard) RemoveFile(i int) error {
	if err := w.uploadEditable(); err != nil {
		return err
	}
	files := w.store.State().UploadedFiles
	if i < 0 || i >= len(files) {
		return fmt.Errorf("file index %d out of range", i)
	}
	next := slices.Delete(slices.Clone(files), i, i+1)
	w.store.Dispatch(ReplaceUploadedFiles{Files: next})
	return nil
}

// ToggleStandard selects or deselects a compliance standard.
func (w *Wizard) ToggleStandard(id string) error {
	if err := w.uploadEditable(); err != nil {
		return err
	}
	if domain.StandardName(id) == "" {
		return fmt.Errorf("unknown compliance standard %q", id)
	}
	ids := w.store.State().SelectedStandards
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(slices.Clone(ids), i, i+1)
	} else {
		ids = append(slices.Clone(ids), id)
	}
	w.store.Dispatch(ReplaceSelectedStandards{IDs: ids})
	return nil
}

// SelectStandards replaces the selected standards, ignoring unknown ids.
func (w *Wizard) SelectStandards(ids []string) error {
	if err := w.uploadEditable(); err != nil {
		return err
	}
	var valid []string
	for _, id := range ids {
		if domain.StandardName(id) != "" && !slices.Contains(valid, id) {
			valid = append(valid, id)
		}
	}
	w.store.Dispatch(ReplaceSelectedStandards{IDs: valid})
	return nil
}

// StartProcessing checks the upload guard, marks the store busy and returns
// the extraction job to run off the update loop. Pass the job's result to
// FinishProcessing together with the ticket.
func (w *Wizard) StartProcessing() (Ticket, ExtractJob, error) {
	s := w.store.State()
	if s.CurrentStep != StepUpload {
		return Ticket{}, nil, ErrWrongStep
	}
	if s.IsProcessing {
		return Ticket{}, nil, ErrBusy
	}
	if err := CheckUpload(s, false); err != nil {
		w.store.Dispatch(SetError{Message: uploadMessage(err)})
		return Ticket{}, nil, err
	}

	w.store.Dispatch(SetProcessing{On: true}, SetError{}, SetSkipFileUpload{Skip: false})
	ticket := w.store.Begin()
	files := s.UploadedFiles
	standards := s.SelectedStandards
	w.logger.Info("extraction started",
		zap.Int("files", len(files)),
		zap.Strings("standards", standards))

	job := func(ctx context.Context) (*domain.GoalCollection, error) {
		return w.extractor.Extract(ctx, files, standards)
	}
	return ticket, job, nil
}

// FinishProcessing applies an extraction result if the ticket is still
// current; otherwise the result is dropped and ErrStaleResult returned.
func (w *Wizard) FinishProcessing(t Ticket, goals *domain.GoalCollection, err error) error {
	if err != nil {
		w.logger.Error("extraction failed", zap.Error(err))
		if !w.store.DispatchIf(t, SetProcessing{On: false}, SetError{Message: MsgProcessingFailed}) {
			return ErrStaleResult
		}
		return err
	}
	if !w.store.DispatchIf(t, ReplaceExtractedGoals{Goals: goals}, SetProcessing{On: false}, AdvanceStep{}) {
		return ErrStaleResult
	}
	w.logger.Info("extraction finished", zap.Int("goals", goals.TotalGoals()))
	return nil
}

// ProcessFiles runs the whole extraction synchronously.
func (w *Wizard) ProcessFiles(ctx context.Context) error {
	ticket, job, err := w.StartProcessing()
	if err != nil {
		return err
	}
	goals, err := job(ctx)
	return w.FinishProcessing(ticket, goals, err)
}

// SkipUpload bypasses file upload and builds goals from the selected
// standards alone.
func (w *Wizard) SkipUpload() error {
	s := w.store.State()
	if s.CurrentStep != StepUpload {
		return ErrWrongStep
	}
	if s.IsProcessing {
		return ErrBusy
	}
	if err := CheckUpload(s, true); err != nil {
		w.store.Dispatch(SetError{Message: uploadMessage(err)})
		return err
	}

	goals := w.templates.FromStandards(s.SelectedStandards)
	if goals == nil {
		w.store.Dispatch(SetError{Message: MsgTemplatesFailed})
		return fmt.Errorf("no template collection for %v", s.SelectedStandards)
	}
	w.store.Dispatch(
		SetSkipFileUpload{Skip: true},
		ReplaceExtractedGoals{Goals: goals},
		AdvanceStep{},
	)
	w.logger.Info("upload skipped", zap.Int("goals", goals.TotalGoals()))
	return nil
}

// Cancel abandons an in-flight operation: its result will be discarded.
func (w *Wizard) Cancel() {
	if !w.store.State().IsProcessing {
		return
	}
	w.store.Invalidate()
	w.store.Dispatch(SetProcessing{On: false})
	w.logger.Info("operation cancelled")
}

// ── Extract step ─────────────────────────────────────────────────────────────

func (w *Wizard) goals() (*domain.GoalCollection, error) {
	s := w.store.State()
	if s.IsProcessing {
		return nil, ErrBusy
	}
	if s.ExtractedGoals == nil {
		return nil, ErrNoGoals
	}
	return s.ExtractedGoals, nil
}

// editGoal checks the edit against the current collection and dispatches
// it only when the lookup succeeds.
func (w *Wizard) editGoal(a Action, check func(*domain.GoalCollection) (*domain.GoalCollection, error)) error {
	goals, err := w.goals()
	if err != nil {
		return err
	}
	if _, err := check(goals); err != nil {
		return err
	}
	w.store.Dispatch(a)
	return nil
}

// UpdateGoal merges p into a goal.
func (w *Wizard) UpdateGoal(pillarID domain.PillarID, goalID string, p domain.GoalPatch) error {
	return w.editGoal(UpdateGoal{PillarID: pillarID, GoalID: goalID, Patch: p}, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
		return c.UpdateGoal(pillarID, goalID, p)
	})
}

// AddGoal appends a blank goal to the pillar and returns its id.
func (w *Wizard) AddGoal(pillarID domain.PillarID) (string, error) {
	goals, err := w.goals()
	if err != nil {
		return "", err
	}
	now := w.now()
	id := uniqueGoalID(goals, pillarID, now)
	if err := w.editGoal(AddGoal{PillarID: pillarID, GoalID: id, Today: now}, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
		return c.AddGoal(pillarID, id, now)
	}); err != nil {
		return "", err
	}
	return id, nil
}

// RemoveGoal deletes a goal.
func (w *Wizard) RemoveGoal(pillarID domain.PillarID, goalID string) error {
	return w.editGoal(RemoveGoal{PillarID: pillarID, GoalID: goalID}, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
		return c.RemoveGoal(pillarID, goalID)
	})
}

// AddTarget appends an empty target to a goal.
func (w *Wizard) AddTarget(pillarID domain.PillarID, goalID string) error {
	return w.editGoal(AddTarget{PillarID: pillarID, GoalID: goalID}, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
		return c.AddTarget(pillarID, goalID)
	})
}

// UpdateTarget merges p into the target at index.
func (w *Wizard) UpdateTarget(pillarID domain.PillarID, goalID string, index int, p domain.TargetPatch) error {
	return w.editGoal(UpdateTarget{PillarID: pillarID, GoalID: goalID, Index: index, Patch: p}, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
		return c.UpdateTarget(pillarID, goalID, index, p)
	})
}

// RemoveTarget deletes the target at index.
func (w *Wizard) RemoveTarget(pillarID domain.PillarID, goalID string, index int) error {
	return w.editGoal(RemoveTarget{PillarID: pillarID, GoalID: goalID, Index: index}, func(c *domain.GoalCollection) (*domain.GoalCollection, error) {
		return c.RemoveTarget(pillarID, goalID, index)
	})
}

// ConfirmGoals moves from the review step to the confirmation step.
func (w *Wizard) ConfirmGoals() error {
	s := w.store.State()
	if s.CurrentStep != StepExtract {
		return ErrWrongStep
	}
	if _, err := w.goals(); err != nil {
		return err
	}
	w.store.Dispatch(SetError{}, AdvanceStep{})
	return nil
}

// ── Navigation ───────────────────────────────────────────────────────────────

// Back returns to the previous step.
func (w *Wizard) Back() error {
	if err := w.busy(); err != nil {
		return err
	}
	w.store.Dispatch(RetreatStep{})
	return nil
}

// DismissError clears the banner.
func (w *Wizard) DismissError() {
	w.store.Dispatch(DismissError{})
}

// ── Confirm step ─────────────────────────────────────────────────────────────

// StartFinish marks the store busy and returns the persistence job.
func (w *Wizard) StartFinish() (Ticket, FinishJob, error) {
	s := w.store.State()
	if s.CurrentStep != StepConfirm {
		return Ticket{}, nil, ErrWrongStep
	}
	if s.IsProcessing {
		return Ticket{}, nil, ErrBusy
	}
	w.store.Dispatch(SetProcessing{On: true}, SetError{})
	ticket := w.store.Begin()

	job := func(ctx context.Context) error {
		email, err := w.identity.Email(ctx)
		if err != nil || email == "" {
			return fmt.Errorf("resolving user email: %w", errors.Join(errMissingIdentity, err))
		}
		return w.completer.Complete(ctx, Completion{
			Email:     email,
			Company:   s.Company,
			Goals:     s.ExtractedGoals,
			Standards: s.SelectedStandards,
		})
	}
	return ticket, job, nil
}

var errMissingIdentity = errors.New("identity unavailable")

// EndFinish records the outcome of a save. Only full success returns nil;
// every failure keeps the wizard on the confirmation step with a banner.
func (w *Wizard) EndFinish(t Ticket, err error) error {
	if err == nil {
		if !w.store.DispatchIf(t, SetProcessing{On: false}) {
			return ErrStaleResult
		}
		w.logger.Info("onboarding saved")
		return nil
	}

	msg := MsgSaveFailed
	switch {
	case errors.Is(err, errMissingIdentity):
		msg = MsgIdentityMissing
	case errors.Is(err, ErrGoalsNotSaved):
		msg = MsgGoalsNotSaved
	case errors.Is(err, ErrUserNotSaved):
		msg = MsgUserNotSaved
	}
	w.logger.Error("saving onboarding failed", zap.Error(err))
	if !w.store.DispatchIf(t, SetProcessing{On: false}, SetError{Message: msg}) {
		return ErrStaleResult
	}
	return err
}

// Finish saves the onboarding synchronously.
func (w *Wizard) Finish(ctx context.Context) error {
	ticket, job, err := w.StartFinish()
	if err != nil {
		return err
	}
	return w.EndFinish(ticket, job(ctx))
}

// Restart wipes all state when the user confirmed. It reports whether the
// reset happened.
func (w *Wizard) Restart(confirmed bool) bool {
	if !confirmed {
		return false
	}
	w.store.Dispatch(Reset{})
	w.clearFieldErrors()
	return true
}

// uniqueGoalID returns a goal id for pillar that does not collide with any
// goal already in c.
func uniqueGoalID(c *domain.GoalCollection, pillar domain.PillarID, at time.Time) string {
	taken := map[string]bool{}
	for _, p := range c.Pillars {
		for _, g := range p.Goals {
			taken[g.ID] = true
		}
	}
	for i := -1; ; i++ {
		id := domain.GoalID(pillar, at, i)
		if !taken[id] {
			return id
		}
	}
}

// FormatFileSize renders a byte count as Bytes, KB, MB or GB.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	s := fmt.Sprintf("%.2f", v)
	// Trim trailing zeros the way parseFloat(x.toFixed(2)) would.
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s + " " + units[i]
}
