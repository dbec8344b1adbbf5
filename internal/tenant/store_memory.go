package tenant

import (
	"context"
	"strings"
	"sync"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests and single-node development.
// Name uniqueness is case-insensitive, matching the partial functional index
// the Postgres store relies on.
type MemoryStore struct {
	mu      sync.Mutex
	tenants map[id.TenantID]*Tenant
	byName  map[string]id.TenantID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants: make(map[id.TenantID]*Tenant),
		byName:  make(map[string]id.TenantID),
	}
}

func (s *MemoryStore) CreateIfNameAvailable(_ context.Context, t *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(t.Name)
	if _, taken := s.byName[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	cp := *t
	s.tenants[t.ID] = &cp
	s.byName[key] = t.ID
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, tenantID id.TenantID) (*Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) FindByName(_ context.Context, name string) (*Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenantID, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.tenants[tenantID]
	return &cp, nil
}

// Execute validates and mutates under the store lock so concurrent
// transitions cannot interleave between check and apply.
func (s *MemoryStore) Execute(_ context.Context, tenantID id.TenantID, validate func(*Tenant) error, mutate func(*Tenant)) (*Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	mutate(t)
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tenants), nil
}
