package entity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/platform/tx"
)

// PostgresStore persists entities in the subject_entities table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) execer(ctx context.Context) interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
} {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, e *Entity) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO subject_entities (id, tenant_id, kind, name, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID.String(), e.TenantID.String(), string(e.Kind), e.Name, e.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (*Entity, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, tenant_id, kind, name, created_at
		FROM subject_entities
		WHERE id = $1 AND tenant_id = $2`,
		entityID.String(), tenantID.String(),
	)
	var (
		e           Entity
		rawID, rawT string
		rawKind     string
	)
	err := row.Scan(&rawID, &rawT, &rawKind, &e.Name, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if e.ID, err = id.ParseEntityID(rawID); err != nil {
		return nil, err
	}
	if e.TenantID, err = id.ParseTenantID(rawT); err != nil {
		return nil, err
	}
	e.Kind = Kind(rawKind)
	return &e, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Entity, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, tenant_id, kind, name, created_at
		FROM subject_entities
		WHERE tenant_id = $1
		ORDER BY created_at`,
		tenantID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		var (
			e           Entity
			rawID, rawT string
			rawKind     string
		)
		if err := rows.Scan(&rawID, &rawT, &rawKind, &e.Name, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.ID, err = id.ParseEntityID(rawID); err != nil {
			return nil, err
		}
		if e.TenantID, err = id.ParseTenantID(rawT); err != nil {
			return nil, err
		}
		e.Kind = Kind(rawKind)
		out = append(out, e)
	}
	return out, rows.Err()
}
