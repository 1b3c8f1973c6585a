package onboarding

import (
	"context"
	"errors"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// GoalExtractor turns uploaded reports into a goal collection. Per-file
// failures are absorbed by the implementation; an error means the whole
// run could not complete (for example, the context was cancelled).
type GoalExtractor interface {
	Extract(ctx context.Context, files []domain.UploadedFile, standards []string) (*domain.GoalCollection, error)
}

// TemplateSource builds the standards-based goal collection used when the
// upload step is skipped.
type TemplateSource interface {
	FromStandards(standards []string) *domain.GoalCollection
}

// EmailSource supplies the authenticated user's email.
type EmailSource interface {
	Email(ctx context.Context) (string, error)
}

// Completion is everything the persistence side needs to finish onboarding.
type Completion struct {
	Email     string
	Company   domain.CompanyData
	Goals     *domain.GoalCollection
	Standards []string
}

// Completer persists a finished onboarding.
type Completer interface {
	Complete(ctx context.Context, c Completion) error
}

var (
	// ErrUserNotSaved means the user record could not be persisted.
	ErrUserNotSaved = errors.New("user not saved")
	// ErrGoalsNotSaved means the user was saved but the goals were not.
	ErrGoalsNotSaved = errors.New("goals not saved")
)
