package evidence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"veritas/internal/canonical"
	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/platform/tx"
)

// execer routes queries through the transaction carried in ctx when one is
// present, so seal writes commit atomically with their audit entries.
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

// PostgresDraftStore persists drafts in the evidence_drafts table.
type PostgresDraftStore struct {
	db *sql.DB
}

func NewPostgresDraftStore(db *sql.DB) *PostgresDraftStore {
	return &PostgresDraftStore{db: db}
}

const draftColumns = `id, tenant_id, declared_scope, target_entity_id, evidence_type,
	justification, purpose_tags, personal_data, gdpr_legal_basis,
	retention_policy, custom_retention_days, ingestion_method, profile_id,
	quarantine_reason, resolution_due, payload, status, created_by,
	created_at, updated_at`

func (s *PostgresDraftStore) Create(ctx context.Context, d *models.Draft) error {
	_, err := pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO evidence_drafts (`+draftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		d.ID.String(), d.TenantID.String(), string(d.Scope), nullableID(d.TargetEntityID),
		d.EvidenceType, d.Justification, pq.Array(d.PurposeTags), d.PersonalData,
		nullableString(string(d.LegalBasis)), string(d.RetentionPolicy), d.CustomRetentionDays,
		string(d.IngestionMethod), nullableProfileID(d.ProfileID),
		nullableString(d.QuarantineReason), d.ResolutionDue, nullableRaw(d.Payload),
		string(d.Status), d.CreatedBy.String(), d.CreatedAt, d.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresDraftStore) FindByID(ctx context.Context, tenantID id.TenantID, draftID id.DraftID) (*models.Draft, error) {
	row := pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+draftColumns+`
		FROM evidence_drafts
		WHERE id = $1 AND tenant_id = $2`,
		draftID.String(), tenantID.String(),
	)
	return scanDraft(row)
}

func (s *PostgresDraftStore) Update(ctx context.Context, d *models.Draft) error {
	res, err := pick(ctx, s.db).ExecContext(ctx, `
		UPDATE evidence_drafts SET
			declared_scope = $3, target_entity_id = $4, evidence_type = $5,
			justification = $6, purpose_tags = $7, personal_data = $8,
			gdpr_legal_basis = $9, retention_policy = $10, custom_retention_days = $11,
			ingestion_method = $12, profile_id = $13, quarantine_reason = $14,
			resolution_due = $15, payload = $16, status = $17, updated_at = $18
		WHERE id = $1 AND tenant_id = $2`,
		d.ID.String(), d.TenantID.String(), string(d.Scope), nullableID(d.TargetEntityID),
		d.EvidenceType, d.Justification, pq.Array(d.PurposeTags), d.PersonalData,
		nullableString(string(d.LegalBasis)), string(d.RetentionPolicy), d.CustomRetentionDays,
		string(d.IngestionMethod), nullableProfileID(d.ProfileID),
		nullableString(d.QuarantineReason), d.ResolutionDue, nullableRaw(d.Payload),
		string(d.Status), d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanDraft(row *sql.Row) (*models.Draft, error) {
	var (
		d                                 models.Draft
		rawID, rawTenant, rawActor        string
		rawScope, rawPolicy               string
		rawMethod, rawStatus              string
		rawBasis                          sql.NullString
		rawTarget, rawProfile, rawQReason sql.NullString
		rawResolutionDue                  sql.NullTime
		tags                              pq.StringArray
		payload                           []byte
	)
	err := row.Scan(&rawID, &rawTenant, &rawScope, &rawTarget, &d.EvidenceType,
		&d.Justification, &tags, &d.PersonalData, &rawBasis,
		&rawPolicy, &d.CustomRetentionDays, &rawMethod, &rawProfile,
		&rawQReason, &rawResolutionDue, &payload, &rawStatus, &rawActor,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.ID, err = id.ParseDraftID(rawID); err != nil {
		return nil, err
	}
	if d.TenantID, err = id.ParseTenantID(rawTenant); err != nil {
		return nil, err
	}
	if d.CreatedBy, err = id.ParseActorID(rawActor); err != nil {
		return nil, err
	}
	if rawTarget.Valid {
		target, err := id.ParseEntityID(rawTarget.String)
		if err != nil {
			return nil, err
		}
		d.TargetEntityID = &target
	}
	if rawProfile.Valid {
		profile, err := id.ParseProfileID(rawProfile.String)
		if err != nil {
			return nil, err
		}
		d.ProfileID = &profile
	}
	if rawResolutionDue.Valid {
		t := rawResolutionDue.Time
		d.ResolutionDue = &t
	}
	d.Scope = models.Scope(rawScope)
	d.LegalBasis = models.LegalBasis(rawBasis.String)
	d.RetentionPolicy = models.RetentionPolicy(rawPolicy)
	d.IngestionMethod = models.IngestionMethod(rawMethod)
	d.Status = models.DraftStatus(rawStatus)
	d.PurposeTags = tags
	d.QuarantineReason = rawQReason.String
	d.Payload = payload
	return &d, nil
}

// PostgresAttachmentStore persists attachments in the evidence_attachments
// table.
type PostgresAttachmentStore struct {
	db *sql.DB
}

func NewPostgresAttachmentStore(db *sql.DB) *PostgresAttachmentStore {
	return &PostgresAttachmentStore{db: db}
}

func (s *PostgresAttachmentStore) Create(ctx context.Context, a *models.Attachment) error {
	_, err := pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO evidence_attachments (id, draft_id, tenant_id, byte_length, digest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID.String(), a.DraftID.String(), a.TenantID.String(), a.ByteLength, a.Digest.String(), a.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresAttachmentStore) ListByDraft(ctx context.Context, tenantID id.TenantID, draftID id.DraftID) ([]models.Attachment, error) {
	rows, err := pick(ctx, s.db).QueryContext(ctx, `
		SELECT id, draft_id, tenant_id, byte_length, digest, created_at
		FROM evidence_attachments
		WHERE tenant_id = $1 AND draft_id = $2
		ORDER BY created_at`,
		tenantID.String(), draftID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Attachment
	for rows.Next() {
		var (
			a                          models.Attachment
			rawID, rawDraft, rawTenant string
			rawDigest                  string
		)
		if err := rows.Scan(&rawID, &rawDraft, &rawTenant, &a.ByteLength, &rawDigest, &a.CreatedAt); err != nil {
			return nil, err
		}
		if a.ID, err = id.ParseAttachmentID(rawID); err != nil {
			return nil, err
		}
		if a.DraftID, err = id.ParseDraftID(rawDraft); err != nil {
			return nil, err
		}
		if a.TenantID, err = id.ParseTenantID(rawTenant); err != nil {
			return nil, err
		}
		if a.Digest, err = canonical.ParseDigest(rawDigest); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PostgresSealedStore persists sealed evidence. The unique index on
// (tenant_id, draft_id) makes Create the cross-instance seal arbiter.
type PostgresSealedStore struct {
	db *sql.DB
}

func NewPostgresSealedStore(db *sql.DB) *PostgresSealedStore {
	return &PostgresSealedStore{db: db}
}

const sealedColumns = `id, draft_id, tenant_id, ledger_state, payload_digest,
	metadata_digest, sealed_at, retention_end, trust_level, review_status,
	evidence_type, declared_scope, target_entity_id, profile_id, source_role, payload`

func (s *PostgresSealedStore) Create(ctx context.Context, e *models.SealedEvidence) error {
	var payloadDigest any
	if e.PayloadDigest != nil {
		payloadDigest = e.PayloadDigest.String()
	}
	_, err := pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO sealed_evidence (`+sealedColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		e.ID.String(), e.DraftID.String(), e.TenantID.String(), string(e.LedgerState),
		payloadDigest, e.MetadataDigest.String(), e.SealedAt, e.RetentionEnd,
		string(e.TrustLevel), string(e.ReviewStatus), e.EvidenceType, string(e.Scope),
		nullableID(e.TargetEntityID), nullableProfileID(e.ProfileID), e.SourceRole,
		nullableRaw(e.Payload),
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresSealedStore) FindByID(ctx context.Context, tenantID id.TenantID, evidenceID id.EvidenceID) (*models.SealedEvidence, error) {
	row := pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+sealedColumns+`
		FROM sealed_evidence
		WHERE id = $1 AND tenant_id = $2`,
		evidenceID.String(), tenantID.String(),
	)
	e, err := scanSealed(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return e, err
}

func (s *PostgresSealedStore) ListByTenant(ctx context.Context, tenantID id.TenantID, state models.LedgerState) ([]models.SealedEvidence, error) {
	rows, err := pick(ctx, s.db).QueryContext(ctx, `
		SELECT `+sealedColumns+`
		FROM sealed_evidence
		WHERE tenant_id = $1 AND ledger_state = $2
		ORDER BY sealed_at`,
		tenantID.String(), string(state),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SealedEvidence
	for rows.Next() {
		e, err := scanSealed(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanSealed(scan func(dest ...any) error) (*models.SealedEvidence, error) {
	var (
		e                             models.SealedEvidence
		rawID, rawDraft, rawTenant    string
		rawState, rawTrust, rawReview string
		rawScope, rawMetaDigest       string
		rawPayloadDigest              sql.NullString
		rawTarget, rawProfile         sql.NullString
		payload                       []byte
	)
	err := scan(&rawID, &rawDraft, &rawTenant, &rawState, &rawPayloadDigest,
		&rawMetaDigest, &e.SealedAt, &e.RetentionEnd, &rawTrust, &rawReview,
		&e.EvidenceType, &rawScope, &rawTarget, &rawProfile, &e.SourceRole, &payload,
	)
	if err != nil {
		return nil, err
	}
	if e.ID, err = id.ParseEvidenceID(rawID); err != nil {
		return nil, err
	}
	if e.DraftID, err = id.ParseDraftID(rawDraft); err != nil {
		return nil, err
	}
	if e.TenantID, err = id.ParseTenantID(rawTenant); err != nil {
		return nil, err
	}
	if e.MetadataDigest, err = canonical.ParseDigest(rawMetaDigest); err != nil {
		return nil, err
	}
	if rawPayloadDigest.Valid {
		digest, err := canonical.ParseDigest(rawPayloadDigest.String)
		if err != nil {
			return nil, err
		}
		e.PayloadDigest = &digest
	}
	if rawTarget.Valid {
		target, err := id.ParseEntityID(rawTarget.String)
		if err != nil {
			return nil, err
		}
		e.TargetEntityID = &target
	}
	if rawProfile.Valid {
		profile, err := id.ParseProfileID(rawProfile.String)
		if err != nil {
			return nil, err
		}
		e.ProfileID = &profile
	}
	e.LedgerState = models.LedgerState(rawState)
	e.TrustLevel = models.TrustLevel(rawTrust)
	e.ReviewStatus = models.ReviewStatus(rawReview)
	e.Scope = models.Scope(rawScope)
	e.Payload = payload
	return &e, nil
}

// PostgresProfileStore persists ingestion profiles.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Create(ctx context.Context, p *models.Profile) error {
	_, err := pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO ingestion_profiles (id, tenant_id, name, source_role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID.String(), p.TenantID.String(), p.Name, p.SourceRole, p.Active, p.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresProfileStore) FindByID(ctx context.Context, tenantID id.TenantID, profileID id.ProfileID) (*models.Profile, error) {
	row := pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, tenant_id, name, source_role, active, created_at
		FROM ingestion_profiles
		WHERE id = $1 AND tenant_id = $2`,
		profileID.String(), tenantID.String(),
	)
	return scanProfile(row.Scan)
}

func (s *PostgresProfileStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]models.Profile, error) {
	rows, err := pick(ctx, s.db).QueryContext(ctx, `
		SELECT id, tenant_id, name, source_role, active, created_at
		FROM ingestion_profiles
		WHERE tenant_id = $1
		ORDER BY created_at`,
		tenantID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PostgresProfileStore) SetActive(ctx context.Context, tenantID id.TenantID, profileID id.ProfileID, active bool) (*models.Profile, error) {
	res, err := pick(ctx, s.db).ExecContext(ctx, `
		UPDATE ingestion_profiles SET active = $3
		WHERE id = $1 AND tenant_id = $2`,
		profileID.String(), tenantID.String(), active,
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
	return s.FindByID(ctx, tenantID, profileID)
}

func scanProfile(scan func(dest ...any) error) (*models.Profile, error) {
	var (
		p                models.Profile
		rawID, rawTenant string
	)
	err := scan(&rawID, &rawTenant, &p.Name, &p.SourceRole, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.ID, err = id.ParseProfileID(rawID); err != nil {
		return nil, err
	}
	if p.TenantID, err = id.ParseTenantID(rawTenant); err != nil {
		return nil, err
	}
	return &p, nil
}

func nullableID(v *id.EntityID) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func nullableProfileID(v *id.ProfileID) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableRaw(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
