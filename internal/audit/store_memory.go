package audit

import (
	"context"
	"sync"

	id "veritas/pkg/domain"
)

// InMemoryStore keeps ledger entries in memory for tests/dev. Append-only by
// construction: nothing in this type mutates or removes a stored event.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemoryStore constructs an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].TenantID != tenantID {
			continue
		}
		out = append(out, s.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
