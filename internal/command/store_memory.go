package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

// InMemoryStore keeps command results in memory for tests and single-instance
// dev. Multi-instance deployments need the Redis store.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	// now is swappable so expiry tests don't sleep.
	now func() time.Time
}

type memoryEntry struct {
	result    *Result
	expiresAt time.Time
}

// NewInMemoryStore constructs an empty in-memory command store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func memoryKey(tenantID id.TenantID, commandID string) string {
	return fmt.Sprintf("%s|%s", tenantID.String(), commandID)
}

func (s *InMemoryStore) Get(_ context.Context, tenantID id.TenantID, commandID string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[memoryKey(tenantID, commandID)]
	if !ok || s.now().After(entry.expiresAt) {
		return nil, fmt.Errorf("command %s: %w", commandID, sentinel.ErrNotFound)
	}
	return entry.result, nil
}

func (s *InMemoryStore) Put(_ context.Context, result *Result, ttl time.Duration) (bool, *Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(result.TenantID, result.CommandID)
	if existing, ok := s.entries[key]; ok && s.now().Before(existing.expiresAt) {
		return false, existing.result, nil
	}
	s.entries[key] = memoryEntry{result: result, expiresAt: s.now().Add(ttl)}
	return true, nil, nil
}
