package testutil

import (
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/google/uuid"
)

// NewTestCompany returns a company record that passes validation.
func NewTestCompany() domain.CompanyData {
	return domain.CompanyData{
		Name:         "Acme DC",
		Website:      "https://acme.example",
		ContactName:  "Jo Park",
		ContactEmail: "jo@acme.example",
		ContactRole:  "Sustainability Lead",
	}
}

// NewTestGoals returns a collection with one environmental goal holding a
// single target.
func NewTestGoals() *domain.GoalCollection {
	c := domain.NewGoalCollection(0.85)
	c, err := c.AppendGoal(domain.PillarEnvironment, domain.Goal{
		ID:       "env-test-1",
		Title:    "Cut Scope 2 emissions",
		Category: domain.CategoryEmissions,
		DueDate:  "2030-12-31",
		Targets:  []domain.Target{domain.NewTarget("Switch to renewable tariff")},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Completion options
type CompletionOption func(*domain.Completion)

func WithUser(userID, email string) CompletionOption {
	return func(c *domain.Completion) {
		c.UserID = userID
		c.Email = email
	}
}

func WithCompletedAt(t time.Time) CompletionOption {
	return func(c *domain.Completion) {
		c.CompletedAt = t
	}
}

func WithStandards(ids ...string) CompletionOption {
	return func(c *domain.Completion) {
		c.Standards = ids
	}
}

func NewTestCompletion(opts ...CompletionOption) *domain.Completion {
	c := &domain.Completion{
		ID:          uuid.New().String(),
		UserID:      "auth0_1a2b",
		Email:       "jo@acme.example",
		Company:     NewTestCompany(),
		Goals:       NewTestGoals(),
		Standards:   []string{"iso-14001"},
		CompletedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTestDraft returns a draft at step holding state.
func NewTestDraft(step int, state string) *domain.Draft {
	return &domain.Draft{
		ID:    uuid.New().String(),
		Step:  step,
		State: []byte(state),
	}
}
