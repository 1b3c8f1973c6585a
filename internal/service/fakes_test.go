package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/alexanderramin/onboarding/internal/domain"
)

type fakeUserAPI struct {
	mu         sync.Mutex
	addErr     error
	saveErr    error
	fetchErr   error
	fetched    json.RawMessage
	addedUsers []string
	savedGoals map[string]*domain.GoalCollection
}

func newFakeUserAPI() *fakeUserAPI {
	return &fakeUserAPI{savedGoals: map[string]*domain.GoalCollection{}}
}

func (f *fakeUserAPI) AddUser(_ context.Context, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.addedUsers = append(f.addedUsers, userID)
	return nil
}

func (f *fakeUserAPI) SaveGoals(_ context.Context, userID string, goals *domain.GoalCollection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedGoals[userID] = goals
	return nil
}

func (f *fakeUserAPI) FetchGoals(_ context.Context, userID string) (json.RawMessage, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetched, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
