package revocation

import (
	"context"
	"sync"

	id "worldvault/pkg/domain"
)

// InMemoryRegistry is a mutex-guarded set for single-process deployments and
// tests. Entries are permanent for the process lifetime.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	revoked map[id.TokenID]struct{}
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{revoked: make(map[id.TokenID]struct{})}
}

func (r *InMemoryRegistry) Revoke(_ context.Context, tokenID id.TokenID) error {
	if tokenID.IsZero() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = struct{}{}
	return nil
}

func (r *InMemoryRegistry) IsRevoked(_ context.Context, tokenID id.TokenID) (bool, error) {
	if tokenID.IsZero() {
		return false, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, revoked := r.revoked[tokenID]
	return revoked, nil
}
