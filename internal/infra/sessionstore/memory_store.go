package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/faq-admin/internal/domain/session"
	"github.com/yanqian/faq-admin/pkg/util"
)

type entry struct {
	state     session.State
	expiresAt time.Time
}

// MemoryStore keeps dashboard sessions in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     util.Clock
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: util.NowUTC}
}

func (s *MemoryStore) Get(_ context.Context, id string) (session.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return session.State{}, false, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return session.State{}, false, nil
	}
	return cloneState(e.state), true, nil
}

func (s *MemoryStore) Save(_ context.Context, state session.State, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{state: cloneState(state)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[state.ID] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func cloneState(state session.State) session.State {
	if state.Pending != nil {
		pending := *state.Pending
		pending.Tags = append([]string{}, pending.Tags...)
		pending.AlternateQuestions = append([]string{}, pending.AlternateQuestions...)
		state.Pending = &pending
	}
	return state
}

var _ session.Store = (*MemoryStore)(nil)
