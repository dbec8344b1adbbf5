// Package tx carries a SQL transaction through context so stores participate
// in the caller's transaction without changing their signatures.
//
// State transition + digest persistence + audit append commit together or not
// at all; this package is how those writes share one transaction.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner starts transactions for services. The SQL implementation wraps
// *sql.DB; tests use the no-op in-memory runner.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs fn within a database transaction injected into the context.
type SQLRunner struct {
	db *sql.DB
}

// NewSQLRunner wraps db as a transaction Runner.
func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

// RunInTx begins a transaction, injects it into ctx, and commits when fn
// returns nil. Any error rolls the whole transaction back.
func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// NoopRunner satisfies Runner for in-memory stores, which serialize on their
// own mutexes.
type NoopRunner struct{}

// NewNoopRunner returns a Runner that simply invokes fn.
func NewNoopRunner() *NoopRunner { return &NoopRunner{} }

func (*NoopRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
