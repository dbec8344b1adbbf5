package tenant

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

// PostgresStore persists tenants in the tenants table. Case-insensitive
// name uniqueness is enforced by a unique index on lower(name).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, t *Tenant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID.String(), t.Name, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrAlreadyUsed
	}
	return err
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID) (*Tenant, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM tenants WHERE id = $1`,
		tenantID.String(),
	))
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*Tenant, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM tenants WHERE lower(name) = lower($1)`,
		name,
	))
}

// Execute runs validate and mutate inside a transaction holding a FOR UPDATE
// lock on the tenant row.
func (s *PostgresStore) Execute(ctx context.Context, tenantID id.TenantID, validate func(*Tenant) error, mutate func(*Tenant)) (*Tenant, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer dbTx.Rollback()

	t, err := s.scanOne(dbTx.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM tenants WHERE id = $1
		FOR UPDATE`,
		tenantID.String(),
	))
	if err != nil {
		return nil, err
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	mutate(t)

	if _, err := dbTx.ExecContext(ctx, `
		UPDATE tenants SET status = $2, updated_at = $3 WHERE id = $1`,
		t.ID.String(), string(t.Status), t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanOne(row rowScanner) (*Tenant, error) {
	var (
		t         Tenant
		rawID     string
		rawStatus string
	)
	err := row.Scan(&rawID, &t.Name, &rawStatus, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if t.ID, err = id.ParseTenantID(rawID); err != nil {
		return nil, err
	}
	t.Status = Status(rawStatus)
	return &t, nil
}
