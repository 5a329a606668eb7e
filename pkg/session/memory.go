package session

import (
	"context"
	"sync"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/report"
)

// MemoryStore keeps plan states in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	plans  map[string]report.State
	latest string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string]report.State)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (report.State, error) {
	if err := errors.ValidatePlanID(id); err != nil {
		return report.State{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.plans[id]
	if !ok {
		return report.State{}, notFound(id)
	}
	return st, nil
}

func (s *MemoryStore) Latest(ctx context.Context) (report.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.plans[s.latest]
	if !ok {
		return report.State{}, notFound("")
	}
	return st, nil
}

func (s *MemoryStore) Set(ctx context.Context, st report.State) error {
	if err := checkState(st); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st.Selections.Priorities = append([]string(nil), st.Selections.Priorities...)
	s.plans[st.ID] = st
	s.latest = st.ID
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.plans, id)
	if s.latest == id {
		s.latest = ""
	}
	return nil
}

// Len returns the number of stored plans.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plans)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
