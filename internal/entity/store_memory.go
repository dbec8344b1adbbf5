package entity

import (
	"context"
	"sort"
	"sync"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests and single-node development.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[id.EntityID]*Entity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entities: make(map[id.EntityID]*Entity)}
}

func (s *MemoryStore) Create(_ context.Context, e *Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entities[e.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *e
	s.entities[e.ID] = &cp
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, tenantID id.TenantID, entityID id.EntityID) (*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entityID]
	if !ok || e.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entity
	for _, e := range s.entities {
		if e.TenantID == tenantID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
