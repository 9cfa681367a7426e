package approval

import (
	"context"
	"sync"

	id "worldvault/pkg/domain"
	"worldvault/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[id.ApprovalID]Request
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requests: make(map[id.ApprovalID]Request)}
}

func (s *InMemoryStore) Save(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, approvalID id.ApprovalID) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, exists := s.requests[approvalID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	copied := req
	return &copied, nil
}
