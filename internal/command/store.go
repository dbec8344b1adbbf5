// Package command implements the tenant-scoped idempotency ledger.
//
// A command id is the caller-supplied key that makes retried requests safe:
// the first execution stores its result; every replay with the same
// (tenant, command) pair returns the stored result without re-running the
// operation. Command ids from different tenants never conflate, even when
// byte-identical.
//
// The ledger is best-effort across instances only if backed by a shared
// store (Redis in production); the persistence layer's conditional writes
// remain the correctness backstop when an entry has expired.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

var (
	commandsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veritas_commands_executed_total",
		Help: "Commands that ran their operation for the first time",
	})
	commandsReplayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veritas_commands_replayed_total",
		Help: "Commands answered from the idempotency ledger without re-execution",
	})
)

// Result is the stored outcome of a completed command.
type Result struct {
	TenantID    id.TenantID `json:"tenant_id"`
	CommandID   string      `json:"command_id"`
	Payload     []byte      `json:"payload"`
	CompletedAt time.Time   `json:"completed_at"`
}

// Store persists command results keyed by (tenant, command).
type Store interface {
	// Get returns the stored result, or sentinel.ErrNotFound.
	Get(ctx context.Context, tenantID id.TenantID, commandID string) (*Result, error)

	// Put stores the result with a TTL. The first writer wins; on a lost
	// race the winner's result is returned with stored=false.
	Put(ctx context.Context, result *Result, ttl time.Duration) (stored bool, winner *Result, err error)
}

// Executor guarantees exactly-once effect for retried commands.
type Executor struct {
	store Store
	ttl   time.Duration
}

// NewExecutor wraps store with the given retention for completed results.
func NewExecutor(store Store, ttl time.Duration) *Executor {
	return &Executor{store: store, ttl: ttl}
}

// Execute runs op at most once per (tenant, command). Replays return the
// stored payload with replayed=true. If op fails, nothing is cached and the
// error surfaces so the caller may retry with the same command id.
func (e *Executor) Execute(ctx context.Context, tenantID id.TenantID, commandID string, op func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	if tenantID.IsNil() {
		return nil, false, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	if commandID == "" {
		return nil, false, dErrors.New(dErrors.CodeInvalidInput, "command id is required")
	}

	prior, err := e.store.Get(ctx, tenantID, commandID)
	if err == nil {
		commandsReplayed.Inc()
		return prior.Payload, true, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "command ledger lookup failed")
	}

	payload, err := op(ctx)
	if err != nil {
		return nil, false, err
	}

	result := &Result{
		TenantID:    tenantID,
		CommandID:   commandID,
		Payload:     payload,
		CompletedAt: time.Now().UTC(),
	}
	stored, winner, err := e.store.Put(ctx, result, e.ttl)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "command ledger write failed")
	}
	if !stored {
		// A concurrent retry won the race; its effect is the one that counts.
		commandsReplayed.Inc()
		return winner.Payload, true, nil
	}

	commandsExecuted.Inc()
	return payload, false, nil
}

// Run executes op through e, marshalling its typed result in and out of the
// ledger.
func Run[T any](ctx context.Context, e *Executor, tenantID id.TenantID, commandID string, op func(ctx context.Context) (T, error)) (T, bool, error) {
	var zero T

	payload, replayed, err := e.Execute(ctx, tenantID, commandID, func(ctx context.Context) ([]byte, error) {
		out, err := op(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("marshal command result: %w", err)
		}
		return raw, nil
	})
	if err != nil {
		return zero, false, err
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, false, dErrors.Wrap(err, dErrors.CodeInternal, "unmarshal command result")
	}
	return out, replayed, nil
}
