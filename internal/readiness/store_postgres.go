package readiness

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"veritas/internal/canonical"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/platform/tx"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func pick(ctx context.Context, db *sql.DB) execer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return db
}

// PostgresRuleStore persists the global rule table in readiness_rules.
type PostgresRuleStore struct {
	db *sql.DB
}

func NewPostgresRuleStore(db *sql.DB) *PostgresRuleStore {
	return &PostgresRuleStore{db: db}
}

const ruleColumns = `id, framework, intended_use, required_evidence_types,
	required_authority_types, required_field_paths, mandatory, gap_class,
	remediation, legal_references, active, position, created_at`

func (s *PostgresRuleStore) Create(ctx context.Context, r *Rule) error {
	_, err := pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO readiness_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.ID.String(), r.Framework, r.IntendedUse,
		pq.Array(r.RequiredEvidenceTypes), pq.Array(r.RequiredAuthorityTypes),
		pq.Array(r.RequiredFieldPaths), r.Mandatory, string(r.GapClass),
		r.Remediation, pq.Array(r.LegalReferences), r.Active, r.Position, r.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresRuleStore) ListByFramework(ctx context.Context, framework string) ([]Rule, error) {
	rows, err := pick(ctx, s.db).QueryContext(ctx, `
		SELECT `+ruleColumns+`
		FROM readiness_rules
		WHERE framework = $1
		ORDER BY position, id`,
		framework,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		var (
			r                           Rule
			rawID, rawClass             string
			evTypes, authTypes          pq.StringArray
			fieldPaths, legalReferences pq.StringArray
		)
		if err := rows.Scan(&rawID, &r.Framework, &r.IntendedUse, &evTypes,
			&authTypes, &fieldPaths, &r.Mandatory, &rawClass,
			&r.Remediation, &legalReferences, &r.Active, &r.Position, &r.CreatedAt); err != nil {
			return nil, err
		}
		if r.ID, err = id.ParseRuleID(rawID); err != nil {
			return nil, err
		}
		r.GapClass = GapClass(rawClass)
		r.RequiredEvidenceTypes = evTypes
		r.RequiredAuthorityTypes = authTypes
		r.RequiredFieldPaths = fieldPaths
		r.LegalReferences = legalReferences
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresRuleStore) SetActive(ctx context.Context, ruleID id.RuleID, active bool) (*Rule, error) {
	res, err := pick(ctx, s.db).ExecContext(ctx, `
		UPDATE readiness_rules SET active = $2 WHERE id = $1`,
		ruleID.String(), active,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sentinel.ErrNotFound
	}

	row := pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+ruleColumns+`
		FROM readiness_rules WHERE id = $1`,
		ruleID.String(),
	)
	var (
		r                           Rule
		rawID, rawClass             string
		evTypes, authTypes          pq.StringArray
		fieldPaths, legalReferences pq.StringArray
	)
	err = row.Scan(&rawID, &r.Framework, &r.IntendedUse, &evTypes,
		&authTypes, &fieldPaths, &r.Mandatory, &rawClass,
		&r.Remediation, &legalReferences, &r.Active, &r.Position, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if r.ID, err = id.ParseRuleID(rawID); err != nil {
		return nil, err
	}
	r.GapClass = GapClass(rawClass)
	r.RequiredEvidenceTypes = evTypes
	r.RequiredAuthorityTypes = authTypes
	r.RequiredFieldPaths = fieldPaths
	r.LegalReferences = legalReferences
	return &r, nil
}

// PostgresResultStore persists contexts, results, and gaps. The unique
// index on (tenant_id, command_id) in readiness_contexts is the
// cross-instance idempotency backstop.
type PostgresResultStore struct {
	db *sql.DB
}

func NewPostgresResultStore(db *sql.DB) *PostgresResultStore {
	return &PostgresResultStore{db: db}
}

func (s *PostgresResultStore) CreateContext(ctx context.Context, c *Context) error {
	_, err := pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO readiness_contexts (id, tenant_id, subject_entity_id, framework,
			intended_use, execution_mode, command_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID.String(), c.TenantID.String(), c.SubjectEntityID.String(), c.Framework,
		c.IntendedUse, string(c.ExecutionMode), c.CommandID, c.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresResultStore) CreateResult(ctx context.Context, r *Result) error {
	outcomes, err := json.Marshal(r.Outcomes)
	if err != nil {
		return err
	}

	e := pick(ctx, s.db)
	_, err = e.ExecContext(ctx, `
		INSERT INTO readiness_results (id, context_id, tenant_id, status,
			rules_passed, rules_failed, evaluation_digest, outcomes, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID.String(), r.ContextID.String(), r.TenantID.String(), string(r.Status),
		r.RulesPassed, r.RulesFailed, r.Digest.String(), outcomes, r.EvaluatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return err
	}

	for _, g := range r.Gaps {
		if _, err := e.ExecContext(ctx, `
			INSERT INTO readiness_gaps (id, result_id, tenant_id, rule_id, class,
				remediation, legal_references)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			g.ID.String(), g.ResultID.String(), g.TenantID.String(), g.RuleID.String(),
			string(g.Class), g.Remediation, pq.Array(g.LegalReferences),
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresResultStore) FindResultByID(ctx context.Context, tenantID id.TenantID, resultID id.ResultID) (*Result, error) {
	e := pick(ctx, s.db)
	row := e.QueryRowContext(ctx, `
		SELECT id, context_id, tenant_id, status, rules_passed, rules_failed,
			evaluation_digest, outcomes, evaluated_at
		FROM readiness_results
		WHERE id = $1 AND tenant_id = $2`,
		resultID.String(), tenantID.String(),
	)

	var (
		r                        Result
		rawID, rawCtx, rawTenant string
		rawStatus, rawDigest     string
		rawOutcomes              []byte
	)
	err := row.Scan(&rawID, &rawCtx, &rawTenant, &rawStatus, &r.RulesPassed,
		&r.RulesFailed, &rawDigest, &rawOutcomes, &r.EvaluatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.ID, err = id.ParseResultID(rawID); err != nil {
		return nil, err
	}
	if r.TenantID, err = id.ParseTenantID(rawTenant); err != nil {
		return nil, err
	}
	ctxID, err := id.ParseContextID(rawCtx)
	if err != nil {
		return nil, err
	}
	r.ContextID = ctxID
	if r.Digest, err = canonical.ParseDigest(rawDigest); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawOutcomes, &r.Outcomes); err != nil {
		return nil, err
	}
	r.Status = Status(rawStatus)

	rows, err := e.QueryContext(ctx, `
		SELECT id, result_id, tenant_id, rule_id, class, remediation, legal_references
		FROM readiness_gaps
		WHERE result_id = $1 AND tenant_id = $2
		ORDER BY id`,
		resultID.String(), tenantID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			g                               Gap
			rawGap, rawRes, rawTen, rawRule string
			rawClass                        string
			legalReferences                 pq.StringArray
		)
		if err := rows.Scan(&rawGap, &rawRes, &rawTen, &rawRule, &rawClass,
			&g.Remediation, &legalReferences); err != nil {
			return nil, err
		}
		if g.ID, err = id.ParseGapID(rawGap); err != nil {
			return nil, err
		}
		if g.ResultID, err = id.ParseResultID(rawRes); err != nil {
			return nil, err
		}
		if g.TenantID, err = id.ParseTenantID(rawTen); err != nil {
			return nil, err
		}
		if g.RuleID, err = id.ParseRuleID(rawRule); err != nil {
			return nil, err
		}
		g.Class = GapClass(rawClass)
		g.LegalReferences = legalReferences
		r.Gaps = append(r.Gaps, g)
	}
	return &r, rows.Err()
}
