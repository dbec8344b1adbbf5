package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newTenant(name string) *Tenant {
	now := time.Now()
	return &Tenant{
		ID:        id.TenantID(uuid.New()),
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *MemoryStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds tenant by ID", func() {
		t := s.newTenant("Aurora Compliance")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, t))

		found, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Equal(t.Name, found.Name)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.TenantID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestNameUniqueness() {
	s.Run("rejects duplicate name", func() {
		t1 := s.newTenant("Duplicate")
		t2 := s.newTenant("Duplicate")

		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, t1))
		s.ErrorIs(s.store.CreateIfNameAvailable(s.ctx, t2), sentinel.ErrAlreadyUsed)
	})

	s.Run("enforces case-insensitive uniqueness", func() {
		t1 := s.newTenant("MyTenant")
		t2 := s.newTenant("MYTENANT")

		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, t1))
		s.ErrorIs(s.store.CreateIfNameAvailable(s.ctx, t2), sentinel.ErrAlreadyUsed)
	})

	s.Run("finds by name case-insensitively", func() {
		t := s.newTenant("CaseSensitive")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, t))

		found, err := s.store.FindByName(s.ctx, "casesensitive")
		s.Require().NoError(err)
		s.Equal(t.ID, found.ID)
	})
}

func (s *MemoryStoreSuite) TestExecute() {
	s.Run("applies mutation after validation passes", func() {
		t := s.newTenant("Transition")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, t))

		updated, err := s.store.Execute(s.ctx, t.ID,
			func(t *Tenant) error { return t.CanDeactivate() },
			func(t *Tenant) { t.ApplyDeactivation(time.Now()) },
		)
		s.Require().NoError(err)
		s.Equal(StatusInactive, updated.Status)

		found, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Equal(StatusInactive, found.Status)
	})

	s.Run("leaves tenant untouched when validation fails", func() {
		t := s.newTenant("Guarded")
		t.Status = StatusInactive
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, t))

		_, err := s.store.Execute(s.ctx, t.ID,
			func(t *Tenant) error { return t.CanDeactivate() },
			func(t *Tenant) { t.ApplyDeactivation(time.Now()) },
		)
		s.Require().Error(err)

		found, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Equal(StatusInactive, found.Status)
	})

	s.Run("returns ErrNotFound for unknown tenant", func() {
		_, err := s.store.Execute(s.ctx, id.TenantID(uuid.New()),
			func(t *Tenant) error { return nil },
			func(t *Tenant) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
