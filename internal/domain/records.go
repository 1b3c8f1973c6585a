package domain

import "time"

// Draft is an autosaved wizard session. State holds the serialized wizard
// state; Step mirrors its current step so listings need not decode it.
type Draft struct {
	ID        string
	Step      int
	State     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completion records a finished onboarding in the local database.
type Completion struct {
	ID          string
	UserID      string
	Email       string
	Company     CompanyData
	Goals       *GoalCollection
	Standards   []string
	CompletedAt time.Time
}

// GoalCount returns the number of goals saved with the completion.
func (c Completion) GoalCount() int {
	return c.Goals.TotalGoals()
}
