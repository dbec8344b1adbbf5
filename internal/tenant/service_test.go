package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"veritas/internal/audit"
	dErrors "veritas/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *audit.Publisher) {
	t.Helper()
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), nil, nil)
	return NewService(NewMemoryStore(), WithAuditPublisher(auditor)), auditor
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active tenant", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Create(ctx, "  Meridian Foods  ")
		require.NoError(t, err)
		require.Equal(t, "Meridian Foods", created.Name)
		require.Equal(t, StatusActive, created.Status)
		require.False(t, created.ID.IsNil())
	})

	t.Run("rejects empty name as validation error", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, "   ")
		require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects duplicate name with conflict", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, "Meridian Foods")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "meridian foods")
		require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("records audit event", func(t *testing.T) {
		svc, auditor := newTestService(t)
		created, err := svc.Create(ctx, "Audited Tenant")
		require.NoError(t, err)

		events, err := auditor.List(ctx, created.ID, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, audit.EventTenantCreated, events[0].Type)
	})
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate then reactivate", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Create(ctx, "Cycling Tenant")
		require.NoError(t, err)

		deactivated, err := svc.Deactivate(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, StatusInactive, deactivated.Status)

		require.True(t, dErrors.HasCode(svc.RequireActive(ctx, created.ID), dErrors.CodeForbidden))

		reactivated, err := svc.Reactivate(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, StatusActive, reactivated.Status)
		require.NoError(t, svc.RequireActive(ctx, created.ID))
	})

	t.Run("double deactivate conflicts", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Create(ctx, "Once Only")
		require.NoError(t, err)

		_, err = svc.Deactivate(ctx, created.ID)
		require.NoError(t, err)

		_, err = svc.Deactivate(ctx, created.ID)
		require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}
