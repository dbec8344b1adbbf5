package evidence

import (
	"context"
	"sort"
	"sync"

	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

// MemoryDraftStore is an in-memory DraftStore for tests and single-node
// development.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[id.DraftID]*models.Draft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[id.DraftID]*models.Draft)}
}

func (s *MemoryDraftStore) Create(_ context.Context, d *models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[d.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *d
	s.drafts[d.ID] = &cp
	return nil
}

func (s *MemoryDraftStore) FindByID(_ context.Context, tenantID id.TenantID, draftID id.DraftID) (*models.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[draftID]
	if !ok || d.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryDraftStore) Update(_ context.Context, d *models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.drafts[d.ID]
	if !ok || existing.TenantID != d.TenantID {
		return sentinel.ErrNotFound
	}
	cp := *d
	s.drafts[d.ID] = &cp
	return nil
}

// MemoryAttachmentStore is an in-memory AttachmentStore.
type MemoryAttachmentStore struct {
	mu          sync.RWMutex
	attachments map[id.AttachmentID]*models.Attachment
}

func NewMemoryAttachmentStore() *MemoryAttachmentStore {
	return &MemoryAttachmentStore{attachments: make(map[id.AttachmentID]*models.Attachment)}
}

func (s *MemoryAttachmentStore) Create(_ context.Context, a *models.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attachments[a.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *a
	s.attachments[a.ID] = &cp
	return nil
}

func (s *MemoryAttachmentStore) ListByDraft(_ context.Context, tenantID id.TenantID, draftID id.DraftID) ([]models.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Attachment
	for _, a := range s.attachments {
		if a.TenantID == tenantID && a.DraftID == draftID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// MemorySealedStore is an in-memory SealedStore. Create enforces the
// one-seal-per-draft invariant under the store lock.
type MemorySealedStore struct {
	mu      sync.RWMutex
	records map[id.EvidenceID]*models.SealedEvidence
	byDraft map[id.DraftID]id.EvidenceID
}

func NewMemorySealedStore() *MemorySealedStore {
	return &MemorySealedStore{
		records: make(map[id.EvidenceID]*models.SealedEvidence),
		byDraft: make(map[id.DraftID]id.EvidenceID),
	}
}

func (s *MemorySealedStore) Create(_ context.Context, e *models.SealedEvidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, sealed := s.byDraft[e.DraftID]; sealed {
		return sentinel.ErrConflict
	}
	cp := *e
	s.records[e.ID] = &cp
	s.byDraft[e.DraftID] = e.ID
	return nil
}

func (s *MemorySealedStore) FindByID(_ context.Context, tenantID id.TenantID, evidenceID id.EvidenceID) (*models.SealedEvidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[evidenceID]
	if !ok || e.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemorySealedStore) ListByTenant(_ context.Context, tenantID id.TenantID, state models.LedgerState) ([]models.SealedEvidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SealedEvidence
	for _, e := range s.records {
		if e.TenantID == tenantID && e.LedgerState == state {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SealedAt.Before(out[j].SealedAt) })
	return out, nil
}

// MemoryProfileStore is an in-memory ProfileStore.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[id.ProfileID]*models.Profile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[id.ProfileID]*models.Profile)}
}

func (s *MemoryProfileStore) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *MemoryProfileStore) FindByID(_ context.Context, tenantID id.TenantID, profileID id.ProfileID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[profileID]
	if !ok || p.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryProfileStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Profile
	for _, p := range s.profiles {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryProfileStore) SetActive(_ context.Context, tenantID id.TenantID, profileID id.ProfileID, active bool) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[profileID]
	if !ok || p.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	p.Active = active
	cp := *p
	return &cp, nil
}
