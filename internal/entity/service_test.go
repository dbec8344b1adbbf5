package entity

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"veritas/internal/audit"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *audit.Publisher) {
	t.Helper()
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), nil, nil)
	return NewService(NewMemoryStore(), auditor, nil), auditor
}

func TestServiceRegister(t *testing.T) {
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())

	t.Run("registers entity with trimmed name", func(t *testing.T) {
		svc, _ := newTestService(t)
		e, err := svc.Register(ctx, tenantID, "site", "  Plant Rotterdam  ")
		require.NoError(t, err)
		require.Equal(t, KindSite, e.Kind)
		require.Equal(t, "Plant Rotterdam", e.Name)
		require.Equal(t, tenantID, e.TenantID)
		require.False(t, e.ID.IsNil())
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, tenantID, "warehouse", "Plant")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects blank name", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, tenantID, "legal_entity", "   ")
		require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, tenantID, "legal_entity", strings.Repeat("x", maxNameLength+1))
		require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("records audit event", func(t *testing.T) {
		svc, auditor := newTestService(t)
		_, err := svc.Register(ctx, tenantID, "product_family", "Dairy")
		require.NoError(t, err)

		events, err := auditor.List(ctx, tenantID, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, audit.EventEntityRegistered, events[0].Type)
	})
}

func TestServiceGet(t *testing.T) {
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())

	t.Run("round trips", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Register(ctx, tenantID, "site", "Plant A")
		require.NoError(t, err)

		found, err := svc.Get(ctx, tenantID, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, found.ID)
	})

	t.Run("absent id is not found", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Get(ctx, tenantID, id.EntityID(uuid.New()))
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("cross-tenant lookup is indistinguishable from absent", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Register(ctx, tenantID, "site", "Plant B")
		require.NoError(t, err)

		_, err = svc.Get(ctx, id.TenantID(uuid.New()), created.ID)
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, tenantID, "site", "Plant A")
	require.NoError(t, err)
	_, err = svc.Register(ctx, tenantID, "site", "Plant B")
	require.NoError(t, err)
	_, err = svc.Register(ctx, id.TenantID(uuid.New()), "site", "Other Tenant Plant")
	require.NoError(t, err)

	entities, err := svc.List(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	for _, e := range entities {
		require.Equal(t, tenantID, e.TenantID)
	}
}

func TestDirectoryExists(t *testing.T) {
	ctx := context.Background()
	tenantID := id.TenantID(uuid.New())
	store := NewMemoryStore()
	svc := NewService(store, nil, nil)
	dir := NewDirectory(store)

	created, err := svc.Register(ctx, tenantID, "legal_entity", "Meridian BV")
	require.NoError(t, err)

	ok, err := dir.Exists(ctx, tenantID, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = dir.Exists(ctx, tenantID, id.EntityID(uuid.New()))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = dir.Exists(ctx, id.TenantID(uuid.New()), created.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
