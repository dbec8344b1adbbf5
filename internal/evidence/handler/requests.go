package handler

import (
	"encoding/json"
	"strings"
	"time"

	"veritas/internal/evidence"
	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// DraftRequest is the HTTP request body for draft creation and update.
// Declared facts are accepted loosely here; completeness is judged only at
// seal time. Enumerated fields still fail fast on unknown values.
type DraftRequest struct {
	CommandID           string          `json:"command_id,omitempty"`
	DeclaredScope       string          `json:"declared_scope"`
	TargetEntityID      string          `json:"target_entity_id,omitempty"`
	EvidenceType        string          `json:"evidence_type"`
	Justification       string          `json:"justification"`
	PurposeTags         []string        `json:"purpose_tags"`
	PersonalData        bool            `json:"personal_data"`
	LegalBasis          string          `json:"gdpr_legal_basis,omitempty"`
	RetentionPolicy     string          `json:"retention_policy"`
	CustomRetentionDays int             `json:"custom_retention_days,omitempty"`
	IngestionMethod     string          `json:"ingestion_method"`
	ProfileID           string          `json:"profile_id,omitempty"`
	QuarantineReason    string          `json:"quarantine_reason,omitempty"`
	ResolutionDueDate   *time.Time      `json:"resolution_due_date,omitempty"`
	Payload             json.RawMessage `json:"payload,omitempty"`

	parsed evidence.DraftInput
}

// Validate parses enumerated and identifier fields.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *DraftRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.EvidenceType = strings.TrimSpace(r.EvidenceType)
	if r.EvidenceType == "" {
		return dErrors.New(dErrors.CodeValidation, "evidence_type is required")
	}

	scope, err := models.ParseScope(r.DeclaredScope)
	if err != nil {
		return err
	}
	policy, err := models.ParseRetentionPolicy(r.RetentionPolicy)
	if err != nil {
		return err
	}
	method, err := models.ParseIngestionMethod(r.IngestionMethod)
	if err != nil {
		return err
	}

	in := evidence.DraftInput{
		Scope:               scope,
		EvidenceType:        r.EvidenceType,
		Justification:       r.Justification,
		PurposeTags:         r.PurposeTags,
		PersonalData:        r.PersonalData,
		RetentionPolicy:     policy,
		CustomRetentionDays: r.CustomRetentionDays,
		IngestionMethod:     method,
		QuarantineReason:    strings.TrimSpace(r.QuarantineReason),
		ResolutionDue:       r.ResolutionDueDate,
		Payload:             r.Payload,
	}

	if r.LegalBasis != "" {
		basis, err := models.ParseLegalBasis(r.LegalBasis)
		if err != nil {
			return err
		}
		in.LegalBasis = basis
	}
	if r.TargetEntityID != "" {
		target, err := id.ParseEntityID(r.TargetEntityID)
		if err != nil {
			return err
		}
		in.TargetEntityID = &target
	}
	if r.ProfileID != "" {
		profile, err := id.ParseProfileID(r.ProfileID)
		if err != nil {
			return err
		}
		in.ProfileID = &profile
	}

	r.parsed = in
	return nil
}

// ParsedInput returns the validated draft input.
func (r *DraftRequest) ParsedInput() evidence.DraftInput {
	return r.parsed
}

// SealRequest is the HTTP request body for POST /evidence/drafts/{id}/seal.
type SealRequest struct {
	CommandID string `json:"command_id"`
}

func (r *SealRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CommandID = strings.TrimSpace(r.CommandID)
	if r.CommandID == "" {
		return dErrors.New(dErrors.CodeValidation, "command_id is required")
	}
	return nil
}
