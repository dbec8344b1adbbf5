package models

import (
	"encoding/json"
	"sort"
	"time"

	"veritas/internal/canonical"
	id "veritas/pkg/domain"
)

// SealedEvidence is the immutable, cryptographically fingerprinted record
// produced by sealing a draft.
//
// Invariant: once LedgerState is SEALED or QUARANTINED no field changes.
// The stores expose no update path for sealed records; any further action
// creates a new version or is rejected with a conflict.
type SealedEvidence struct {
	ID       id.EvidenceID `json:"evidence_id"`
	DraftID  id.DraftID    `json:"draft_id"`
	TenantID id.TenantID   `json:"tenant_id"`

	LedgerState LedgerState `json:"ledger_state"`

	// PayloadDigest is the root digest over the attachment digests, or nil
	// for declaration-only evidence.
	PayloadDigest *canonical.Digest `json:"payload_digest,omitempty"`

	// MetadataDigest fingerprints the canonicalized declaration.
	MetadataDigest canonical.Digest `json:"metadata_digest"`

	SealedAt     time.Time `json:"sealed_at"`
	RetentionEnd time.Time `json:"retention_end"`

	TrustLevel   TrustLevel   `json:"trust_level"`
	ReviewStatus ReviewStatus `json:"review_status"`

	// Declaration facts carried forward for rule evaluation.
	EvidenceType   string          `json:"evidence_type"`
	Scope          Scope           `json:"declared_scope"`
	TargetEntityID *id.EntityID    `json:"target_entity_id,omitempty"`
	ProfileID      *id.ProfileID   `json:"profile_id,omitempty"`
	SourceRole     string          `json:"source_role"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Declaration is the canonicalization input for the metadata digest. Field
// names are stable wire identifiers: changing one changes every future
// metadata digest.
type Declaration struct {
	TenantID            string          `json:"tenant_id"`
	DraftID             string          `json:"draft_id"`
	Scope               string          `json:"declared_scope"`
	TargetEntityID      string          `json:"target_entity_id,omitempty"`
	EvidenceType        string          `json:"evidence_type"`
	Justification       string          `json:"justification"`
	PurposeTags         []string        `json:"purpose_tags"`
	PersonalData        bool            `json:"personal_data"`
	LegalBasis          string          `json:"gdpr_legal_basis,omitempty"`
	RetentionPolicy     string          `json:"retention_policy"`
	CustomRetentionDays int             `json:"custom_retention_days,omitempty"`
	IngestionMethod     string          `json:"ingestion_method"`
	QuarantineReason    string          `json:"quarantine_reason,omitempty"`
	Payload             json.RawMessage `json:"payload,omitempty"`
}

// DeclarationOf builds the canonicalization input from a draft. Canonical
// JSON sorts object keys but preserves array order, so purpose tags (a set)
// are sorted here to keep identical tag sets digest-identical.
func DeclarationOf(d *Draft) Declaration {
	decl := Declaration{
		TenantID:            d.TenantID.String(),
		DraftID:             d.ID.String(),
		Scope:               string(d.Scope),
		EvidenceType:        d.EvidenceType,
		Justification:       d.Justification,
		PurposeTags:         sortedTags(d.PurposeTags),
		PersonalData:        d.PersonalData,
		LegalBasis:          string(d.LegalBasis),
		RetentionPolicy:     string(d.RetentionPolicy),
		CustomRetentionDays: d.CustomRetentionDays,
		IngestionMethod:     string(d.IngestionMethod),
		QuarantineReason:    d.QuarantineReason,
		Payload:             d.Payload,
	}
	if d.TargetEntityID != nil {
		decl.TargetEntityID = d.TargetEntityID.String()
	}
	return decl
}

func sortedTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	sort.Strings(out)
	return out
}

// Profile is a tenant-scoped ingestion/authorization profile. Evidence sealed
// under an inactive profile never influences a readiness result.
type Profile struct {
	ID         id.ProfileID `json:"id"`
	TenantID   id.TenantID  `json:"tenant_id"`
	Name       string       `json:"name"`
	SourceRole string       `json:"source_role"`
	Active     bool         `json:"active"`
	CreatedAt  time.Time    `json:"created_at"`
}
