package handler

import (
	"time"

	"veritas/internal/evidence/models"
)

// DraftResponse is the HTTP shape of a draft.
type DraftResponse struct {
	DraftID   string    `json:"draft_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDraft(d *models.Draft) *DraftResponse {
	return &DraftResponse{
		DraftID:   d.ID.String(),
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// AttachmentResponse is the HTTP shape of a stored attachment.
type AttachmentResponse struct {
	AttachmentID string `json:"attachment_id"`
	Digest       string `json:"digest"`
	ByteLength   int64  `json:"byte_length"`
}

func FromAttachment(a *models.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		AttachmentID: a.ID.String(),
		Digest:       a.Digest.String(),
		ByteLength:   a.ByteLength,
	}
}

// SealedResponse is the HTTP shape of a sealed evidence record.
type SealedResponse struct {
	EvidenceID     string    `json:"evidence_id"`
	DraftID        string    `json:"draft_id"`
	LedgerState    string    `json:"ledger_state"`
	PayloadDigest  *string   `json:"payload_digest,omitempty"`
	MetadataDigest string    `json:"metadata_digest"`
	SealedAt       time.Time `json:"sealed_at"`
	RetentionEnd   time.Time `json:"retention_end"`
	TrustLevel     string    `json:"trust_level"`
	ReviewStatus   string    `json:"review_status,omitempty"`
}

func FromSealed(e *models.SealedEvidence) *SealedResponse {
	resp := &SealedResponse{
		EvidenceID:     e.ID.String(),
		DraftID:        e.DraftID.String(),
		LedgerState:    string(e.LedgerState),
		MetadataDigest: e.MetadataDigest.String(),
		SealedAt:       e.SealedAt,
		RetentionEnd:   e.RetentionEnd,
		TrustLevel:     string(e.TrustLevel),
		ReviewStatus:   string(e.ReviewStatus),
	}
	if e.PayloadDigest != nil {
		digest := e.PayloadDigest.String()
		resp.PayloadDigest = &digest
	}
	return resp
}

// ProfileResponse is the HTTP shape of an ingestion profile.
type ProfileResponse struct {
	ProfileID  string    `json:"profile_id"`
	Name       string    `json:"name"`
	SourceRole string    `json:"source_role"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromProfile(p *models.Profile) *ProfileResponse {
	return &ProfileResponse{
		ProfileID:  p.ID.String(),
		Name:       p.Name,
		SourceRole: p.SourceRole,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
	}
}
