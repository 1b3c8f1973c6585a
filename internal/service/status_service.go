package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/onboarding/internal/db"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/identity"
	"github.com/alexanderramin/onboarding/internal/repository"
)

// Status summarizes the local onboarding record.
type Status struct {
	Complete bool
	Latest   *domain.Completion
	Draft    *domain.Draft
}

// StatusService answers the status and reset commands.
type StatusService struct {
	flags       repository.FlagRepo
	completions repository.CompletionRepo
	drafts      repository.DraftRepo
	api         UserAPI
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewStatusService(
	flags repository.FlagRepo,
	completions repository.CompletionRepo,
	drafts repository.DraftRepo,
	api UserAPI,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) *StatusService {
	return &StatusService{
		flags:       flags,
		completions: completions,
		drafts:      drafts,
		api:         api,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// IsComplete reports whether the completion flag is set.
func (s *StatusService) IsComplete(ctx context.Context) (bool, error) {
	v, err := s.flags.Get(ctx, FlagOnboardingComplete)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (s *StatusService) Status(ctx context.Context) (*Status, error) {
	complete, err := s.IsComplete(ctx)
	if err != nil {
		return nil, err
	}
	st := &Status{Complete: complete}

	st.Latest, err = s.completions.Latest(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	st.Draft, err = s.drafts.Latest(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return st, nil
}

// RemoteGoals fetches the goals saved for email from the persistence API.
func (s *StatusService) RemoteGoals(ctx context.Context, email string) (goals json.RawMessage, err error) {
	if email == "" {
		return nil, identity.ErrNoIdentity
	}
	userID := identity.UserID(email)
	done := observe(ctx, s.observer, "fetch-goals", map[string]any{"user_id": userID})
	defer func() { done(err) }()

	goals, err = s.api.FetchGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching goals for %s: %w", userID, err)
	}
	return goals, nil
}

// Reset clears the completion flag and every draft so the wizard runs
// again. Completion records are kept as history.
func (s *StatusService) Reset(ctx context.Context) (drafts int64, err error) {
	done := observe(ctx, s.observer, "reset-onboarding", nil)
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteFlagRepo(tx).Delete(ctx, FlagOnboardingComplete); err != nil {
			return err
		}
		n, err := repository.NewSQLiteDraftRepo(tx).DeleteAll(ctx)
		drafts = n
		return err
	})
	return drafts, err
}
