package readiness

import (
	"context"
	"sort"
	"sync"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

// MemoryRuleStore is an in-memory RuleStore for tests and single-node
// development.
type MemoryRuleStore struct {
	mu    sync.RWMutex
	rules map[id.RuleID]*Rule
}

func NewMemoryRuleStore() *MemoryRuleStore {
	return &MemoryRuleStore{rules: make(map[id.RuleID]*Rule)}
}

func (s *MemoryRuleStore) Create(_ context.Context, r *Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[r.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *r
	s.rules[r.ID] = &cp
	return nil
}

func (s *MemoryRuleStore) ListByFramework(_ context.Context, framework string) ([]Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Rule
	for _, r := range s.rules {
		if r.Framework == framework {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryRuleStore) SetActive(_ context.Context, ruleID id.RuleID, active bool) (*Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[ruleID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	r.Active = active
	cp := *r
	return &cp, nil
}

// MemoryResultStore is an in-memory ResultStore. CreateContext enforces the
// (tenant, command) uniqueness backstop under the store lock.
type MemoryResultStore struct {
	mu        sync.RWMutex
	contexts  map[id.ContextID]*Context
	results   map[id.ResultID]*Result
	byCommand map[string]id.ContextID
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{
		contexts:  make(map[id.ContextID]*Context),
		results:   make(map[id.ResultID]*Result),
		byCommand: make(map[string]id.ContextID),
	}
}

func commandKey(tenantID id.TenantID, commandID string) string {
	return tenantID.String() + "|" + commandID
}

func (s *MemoryResultStore) CreateContext(_ context.Context, c *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := commandKey(c.TenantID, c.CommandID)
	if _, ok := s.byCommand[key]; ok {
		return sentinel.ErrConflict
	}
	cp := *c
	s.contexts[c.ID] = &cp
	s.byCommand[key] = c.ID
	return nil
}

func (s *MemoryResultStore) CreateResult(_ context.Context, r *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[r.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *r
	s.results[r.ID] = &cp
	return nil
}

func (s *MemoryResultStore) FindResultByID(_ context.Context, tenantID id.TenantID, resultID id.ResultID) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[resultID]
	if !ok || r.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}
