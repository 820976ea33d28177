package bypass

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps bypass state in process memory. Used for tests and for
// runs without a Redis instance, where the challenge outcome cannot outlive
// the process.
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// State returns the recorded state, or ErrStateNotFound.
func (s *MemoryStore) State(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return State{}, ErrStateNotFound
	}
	return *s.state, nil
}

// MarkPassed records a cleared challenge with the current timestamp.
func (s *MemoryStore) MarkPassed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &State{
		Passed:   true,
		PassedAt: time.Now().UTC(),
	}
	return nil
}

// Clear removes the recorded state.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = nil
	Invalidations.Inc()
	return nil
}
