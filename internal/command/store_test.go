package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

func newExecutor() (*Executor, *InMemoryStore) {
	store := NewInMemoryStore()
	return NewExecutor(store, 24*time.Hour), store
}

func TestExecute_RunsOperationOnce(t *testing.T) {
	exec, _ := newExecutor()
	tenantID := id.TenantID(uuid.New())
	calls := 0

	op := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{"evidence_id":"abc"}`), nil
	}

	first, replayed, err := exec.Execute(context.Background(), tenantID, "cmd-1", op)
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := exec.Execute(context.Background(), tenantID, "cmd-1", op)
	require.NoError(t, err)
	assert.True(t, replayed)

	assert.Equal(t, 1, calls, "operation must not re-run on replay")
	assert.Equal(t, first, second, "replay must return the identical stored result")
}

func TestExecute_TenantsNeverConflate(t *testing.T) {
	exec, _ := newExecutor()
	tenantA := id.TenantID(uuid.New())
	tenantB := id.TenantID(uuid.New())
	calls := 0

	op := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{}`), nil
	}

	_, _, err := exec.Execute(context.Background(), tenantA, "same-command-id", op)
	require.NoError(t, err)
	_, replayed, err := exec.Execute(context.Background(), tenantB, "same-command-id", op)
	require.NoError(t, err)

	assert.False(t, replayed, "byte-identical command ids from different tenants are distinct commands")
	assert.Equal(t, 2, calls)
}

func TestExecute_FailedOperationIsNotCached(t *testing.T) {
	exec, _ := newExecutor()
	tenantID := id.TenantID(uuid.New())
	calls := 0
	boom := errors.New("store unavailable")

	op := func(ctx context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return []byte(`{"ok":true}`), nil
	}

	_, _, err := exec.Execute(context.Background(), tenantID, "cmd-retry", op)
	require.ErrorIs(t, err, boom)

	payload, replayed, err := exec.Execute(context.Background(), tenantID, "cmd-retry", op)
	require.NoError(t, err)
	assert.False(t, replayed, "retry after failure must re-run the operation")
	assert.JSONEq(t, `{"ok":true}`, string(payload))
}

func TestExecute_EntriesExpire(t *testing.T) {
	store := NewInMemoryStore()
	current := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	exec := NewExecutor(store, time.Hour)

	tenantID := id.TenantID(uuid.New())
	calls := 0
	op := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{}`), nil
	}

	_, _, err := exec.Execute(context.Background(), tenantID, "cmd-exp", op)
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	_, replayed, err := exec.Execute(context.Background(), tenantID, "cmd-exp", op)
	require.NoError(t, err)
	assert.False(t, replayed, "expired entries re-run the operation")
	assert.Equal(t, 2, calls)
}

func TestExecute_RequiresTenantAndCommand(t *testing.T) {
	exec, _ := newExecutor()

	_, _, err := exec.Execute(context.Background(), id.TenantID{}, "cmd", func(ctx context.Context) ([]byte, error) {
		return nil, nil
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, _, err = exec.Execute(context.Background(), id.TenantID(uuid.New()), "", func(ctx context.Context) ([]byte, error) {
		return nil, nil
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestRun_TypedRoundTrip(t *testing.T) {
	exec, _ := newExecutor()
	tenantID := id.TenantID(uuid.New())

	type receipt struct {
		EvidenceID string `json:"evidence_id"`
	}

	first, replayed, err := Run(context.Background(), exec, tenantID, "cmd-typed", func(ctx context.Context) (*receipt, error) {
		return &receipt{EvidenceID: "ev-1"}, nil
	})
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := Run(context.Background(), exec, tenantID, "cmd-typed", func(ctx context.Context) (*receipt, error) {
		t.Fatal("operation must not re-run")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first, second)
}
