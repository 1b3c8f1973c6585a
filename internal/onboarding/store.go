package onboarding

import (
	"sync"

	"go.uber.org/zap"
)

// Ticket tags an asynchronous operation with the store generation it was
// started in. Results carrying a stale ticket are discarded.
type Ticket struct {
	generation uint64
}

// Listener is notified after every applied dispatch.
type Listener func(prev, next State)

// Store owns the onboarding state and applies actions through Reduce.
// It is safe for concurrent use; State returns copies.
type Store struct {
	mu         sync.Mutex
	state      State
	generation uint64
	listeners  []Listener
	logger     *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger attaches a logger that records each dispatched action.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store holding initial.
func NewStore(initial State, opts ...StoreOption) *Store {
	s := &Store{
		state:  initial.Clone(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies the actions in order and returns the resulting state.
func (s *Store) Dispatch(actions ...Action) State {
	s.mu.Lock()
	prev := s.state
	next := s.apply(actions)
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev.Clone(), next.Clone())
	}
	return next.Clone()
}

// Begin returns a ticket for the current generation.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{generation: s.generation}
}

// Valid reports whether t still belongs to the current generation.
func (s *Store) Valid(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.generation == s.generation
}

// DispatchIf applies the actions only when t is still valid. It reports
// whether they were applied.
func (s *Store) DispatchIf(t Ticket, actions ...Action) bool {
	s.mu.Lock()
	if t.generation != s.generation {
		s.mu.Unlock()
		s.logger.Info("discarding stale result",
			zap.Uint64("ticket", t.generation),
			zap.Int("actions", len(actions)))
		return false
	}
	prev := s.state
	next := s.apply(actions)
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev.Clone(), next.Clone())
	}
	return true
}

// Invalidate moves to a new generation so that every outstanding ticket
// becomes stale.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// Subscribe registers l for change notifications.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// apply must be called with mu held.
func (s *Store) apply(actions []Action) State {
	for _, a := range actions {
		before := s.state.CurrentStep
		s.state = Reduce(s.state, a)
		_, isReset := a.(Reset)
		if isReset || s.state.CurrentStep != before {
			s.generation++
		}
		s.logger.Debug("dispatch",
			zap.String("action", ActionName(a)),
			zap.Stringer("step", s.state.CurrentStep))
	}
	return s.state
}
