package models

import (
	"encoding/json"
	"time"

	"veritas/internal/canonical"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Draft is the mutable staging object for an evidence declaration.
//
// Invariants:
//   - Mutable only by its owning tenant and only while Status is DRAFTING
//   - Terminal on seal or quarantine; never deleted while a seal references it
//   - Justification, tags, and flags are validated in full at seal time,
//     not field by field on update
type Draft struct {
	ID       id.DraftID  `json:"id"`
	TenantID id.TenantID `json:"tenant_id"`

	Scope          Scope        `json:"declared_scope"`
	TargetEntityID *id.EntityID `json:"target_entity_id,omitempty"`
	EvidenceType   string       `json:"evidence_type"`
	Justification  string       `json:"justification"`
	PurposeTags    []string     `json:"purpose_tags"`

	PersonalData bool       `json:"personal_data"`
	LegalBasis   LegalBasis `json:"gdpr_legal_basis,omitempty"`

	RetentionPolicy     RetentionPolicy `json:"retention_policy"`
	CustomRetentionDays int             `json:"custom_retention_days,omitempty"`

	IngestionMethod IngestionMethod `json:"ingestion_method"`
	ProfileID       *id.ProfileID   `json:"profile_id,omitempty"`

	// QuarantineReason and ResolutionDue are required when Scope is unknown.
	QuarantineReason string     `json:"quarantine_reason,omitempty"`
	ResolutionDue    *time.Time `json:"resolution_due_date,omitempty"`

	// Payload is the structured declaration body that rule evaluation
	// resolves field paths against once sealed.
	Payload json.RawMessage `json:"payload,omitempty"`

	Status    DraftStatus `json:"status"`
	CreatedBy id.ActorID  `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CanMutate checks that the draft still accepts changes.
func (d *Draft) CanMutate() error {
	if d.Status != DraftStatusDrafting {
		return dErrors.New(dErrors.CodeConflict, "draft is already "+string(d.Status)+" and immutable")
	}
	return nil
}

// ApplySealOutcome transitions the draft's status to mirror its seal.
func (d *Draft) ApplySealOutcome(state LedgerState, now time.Time) {
	if state == LedgerQuarantined {
		d.Status = DraftStatusQuarantined
	} else {
		d.Status = DraftStatusSealed
	}
	d.UpdatedAt = now
}

// Attachment is a file bound to a draft, immutable once its digest is
// computed.
type Attachment struct {
	ID         id.AttachmentID  `json:"id"`
	DraftID    id.DraftID       `json:"draft_id"`
	TenantID   id.TenantID      `json:"tenant_id"`
	ByteLength int64            `json:"byte_length"`
	Digest     canonical.Digest `json:"digest"`
	CreatedAt  time.Time        `json:"created_at"`
}
