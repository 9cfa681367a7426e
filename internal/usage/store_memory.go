package usage

import (
	"context"
	"sync"

	id "worldvault/pkg/domain"
)

// InMemoryStore is a mutex-guarded ledger for single-process deployments and
// tests. The write lock spans the whole read-modify-write so increments are
// atomic per call, not just per counter.
type InMemoryStore struct {
	mu     sync.RWMutex
	totals map[id.TokenID]*Totals
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{totals: make(map[id.TokenID]*Totals)}
}

func (s *InMemoryStore) Increment(_ context.Context, tokenID id.TokenID, action id.Action, bytes int64) (Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.totals[tokenID]
	if !exists {
		t = &Totals{}
		s.totals[tokenID] = t
	}

	t.Bytes += bytes
	switch action {
	case id.ActionRead:
		t.Reads++
	case id.ActionWrite:
		t.Writes++
	}
	return *t, nil
}

func (s *InMemoryStore) Totals(_ context.Context, tokenID id.TokenID) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, exists := s.totals[tokenID]; exists {
		return *t, nil
	}
	return Totals{}, nil
}
