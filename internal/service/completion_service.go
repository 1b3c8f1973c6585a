package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/onboarding/internal/db"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/identity"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/alexanderramin/onboarding/internal/repository"
	"github.com/google/uuid"
)

// CompletionService saves a finished onboarding: the user and goals go to
// the remote API, then the completion flag, a local record and the removal
// of autosaved drafts are committed in one transaction.
type CompletionService struct {
	api      UserAPI
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

var _ onboarding.Completer = (*CompletionService)(nil)

func NewCompletionService(api UserAPI, uow db.UnitOfWork, observers ...UseCaseObserver) *CompletionService {
	return &CompletionService{
		api:      api,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Complete returns an error wrapping onboarding.ErrUserNotSaved when the
// user could not be added, and onboarding.ErrGoalsNotSaved when the user
// was added but the goals were not. The flag is written only after both
// remote calls succeeded.
func (s *CompletionService) Complete(ctx context.Context, c onboarding.Completion) (err error) {
	userID := identity.UserID(c.Email)
	fields := map[string]any{
		"user_id": userID,
		"goals":   c.Goals.TotalGoals(),
	}
	done := observe(ctx, s.observer, "complete-onboarding", fields)
	defer func() { done(err) }()

	if err = s.api.AddUser(ctx, userID, c.Email); err != nil {
		return fmt.Errorf("%w: %w", onboarding.ErrUserNotSaved, err)
	}
	if err = s.api.SaveGoals(ctx, userID, c.Goals); err != nil {
		return fmt.Errorf("%w: %w", onboarding.ErrGoalsNotSaved, err)
	}

	record := &domain.Completion{
		ID:          uuid.New().String(),
		UserID:      userID,
		Email:       c.Email,
		Company:     c.Company,
		Goals:       c.Goals,
		Standards:   c.Standards,
		CompletedAt: s.now(),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteFlagRepo(tx).Set(ctx, FlagOnboardingComplete, "true"); err != nil {
			return err
		}
		if err := repository.NewSQLiteCompletionRepo(tx).Create(ctx, record); err != nil {
			return err
		}
		drafts, err := repository.NewSQLiteDraftRepo(tx).DeleteAll(ctx)
		fields["drafts_removed"] = drafts
		return err
	})
	if err != nil {
		return fmt.Errorf("recording completion: %w", err)
	}
	return nil
}
