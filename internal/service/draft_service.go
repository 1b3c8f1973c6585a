package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/alexanderramin/onboarding/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftService autosaves the wizard state so an interrupted onboarding can
// be resumed. Only durable fields are stored: the processing flag and the
// banner are transient and never written.
type DraftService struct {
	repo   repository.DraftRepo
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	id   string
	last []byte
}

func NewDraftService(repo repository.DraftRepo, logger *zap.Logger) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Resume loads the most recent draft. ok is false when there is none.
// Uploaded files whose path no longer exists are dropped.
func (s *DraftService) Resume(ctx context.Context) (state onboarding.State, ok bool, err error) {
	d, err := s.repo.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return onboarding.InitialState(), false, nil
	}
	if err != nil {
		return onboarding.InitialState(), false, err
	}

	state = onboarding.InitialState()
	if err := json.Unmarshal(d.State, &state); err != nil {
		return onboarding.InitialState(), false, fmt.Errorf("decoding draft %s: %w", d.ID, err)
	}
	state = durable(state)

	files := make([]domain.UploadedFile, 0, len(state.UploadedFiles))
	for _, f := range state.UploadedFiles {
		if _, statErr := os.Stat(f.Path); statErr != nil {
			s.logger.Warn("dropping missing file from draft", zap.String("path", f.Path))
			continue
		}
		files = append(files, f)
	}
	state.UploadedFiles = files

	s.mu.Lock()
	s.id = d.ID
	s.last, _ = json.Marshal(state)
	s.mu.Unlock()

	s.logger.Info("resumed draft", zap.String("draft_id", d.ID), zap.Stringer("step", state.CurrentStep))
	return state, true, nil
}

// Attach subscribes the service to store so every durable change is saved.
func (s *DraftService) Attach(store *onboarding.Store) {
	store.Subscribe(func(_, next onboarding.State) {
		if err := s.Save(context.Background(), next); err != nil {
			s.logger.Warn("autosave failed", zap.Error(err))
		}
	})
}

// Save writes state when its durable part changed since the last save.
// A state back at its initial value removes the draft instead.
func (s *DraftService) Save(ctx context.Context, state onboarding.State) error {
	state = durable(state)
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(data, s.last) {
		return nil
	}

	initial, _ := json.Marshal(onboarding.InitialState())
	if bytes.Equal(data, initial) {
		s.last = data
		if s.id == "" {
			return nil
		}
		err := s.repo.Delete(ctx, s.id)
		s.id = ""
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return nil
	}

	if s.id == "" {
		s.id = uuid.New().String()
	}
	d := &domain.Draft{
		ID:        s.id,
		Step:      int(state.CurrentStep),
		State:     data,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return err
	}
	s.last = data
	return nil
}

// ID returns the id of the draft being written, or "" before the first save.
func (s *DraftService) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func durable(s onboarding.State) onboarding.State {
	s = s.Clone()
	s.IsProcessing = false
	s.Error = ""
	return s
}
