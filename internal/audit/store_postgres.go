package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "veritas/pkg/domain"
	txcontext "veritas/pkg/platform/tx"
)

// PostgresStore persists ledger entries. Appends honor a context-carried
// transaction so the audit row commits atomically with the state transition
// it records. The audit_events table carries a trigger rejecting UPDATE and
// DELETE, enforcing append-only structurally rather than by convention.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres wraps db as an audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (id, tenant_id, correlation_id, event_type, actor_id, created_at, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	detail := event.Detail
	if len(detail) == 0 {
		detail = []byte("{}")
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		event.ID,
		uuid.UUID(event.TenantID),
		event.CorrelationID,
		string(event.Type),
		uuid.UUID(event.ActorID),
		event.Timestamp,
		[]byte(detail),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]Event, error) {
	query := `
		SELECT id, tenant_id, correlation_id, event_type, actor_id, created_at, detail
		FROM audit_events
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID), limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event   Event
			tenant  uuid.UUID
			actor   uuid.UUID
			evtType string
		)
		if err := rows.Scan(&event.ID, &tenant, &event.CorrelationID, &evtType, &actor, &event.Timestamp, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.TenantID = id.TenantID(tenant)
		event.ActorID = id.ActorID(actor)
		event.Type = EventType(evtType)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
