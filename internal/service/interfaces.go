package service

import (
	"context"
	"encoding/json"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// FlagOnboardingComplete is set to "true" after a fully successful save.
const FlagOnboardingComplete = "onboarding_complete"

// UserAPI is the remote persistence API.
type UserAPI interface {
	AddUser(ctx context.Context, userID, email string) error
	SaveGoals(ctx context.Context, userID string, goals *domain.GoalCollection) error
	FetchGoals(ctx context.Context, userID string) (json.RawMessage, error)
}
