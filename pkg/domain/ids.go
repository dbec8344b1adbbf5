// Package domain holds the typed identifiers shared across modules.
//
// Every ID is a distinct uuid-backed type so the compiler rejects
// cross-entity mixups (passing a DraftID where an EvidenceID is expected).
// Construct IDs via the Parse functions at trust boundaries; direct casting
// bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "veritas/pkg/domain-errors"
)

type (
	// TenantID identifies the owning tenant. Every query against a
	// tenant-owned store carries one as a mandatory filter.
	TenantID uuid.UUID

	// ActorID identifies the authenticated caller supplied by the
	// external identity provider.
	ActorID uuid.UUID

	// DraftID identifies a mutable evidence draft.
	DraftID uuid.UUID

	// EvidenceID identifies a sealed (immutable) evidence record.
	EvidenceID uuid.UUID

	// AttachmentID identifies a file bound to a draft.
	AttachmentID uuid.UUID

	// EntityID identifies a tenant-scoped subject entity
	// (legal entity, site, or product family).
	EntityID uuid.UUID

	// ProfileID identifies an ingestion/authorization profile.
	ProfileID uuid.UUID

	// RuleID identifies a globally shared readiness rule.
	RuleID uuid.UUID

	// ContextID identifies one immutable evaluation context.
	ContextID uuid.UUID

	// ResultID identifies one immutable readiness result.
	ResultID uuid.UUID

	// GapID identifies one materialized readiness gap.
	GapID uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is not a valid uuid")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be the nil uuid")
	}
	return u, nil
}

// ParseTenantID validates s as a non-nil uuid and returns it as a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s, "tenant")
	return TenantID(u), err
}

// ParseActorID validates s as a non-nil uuid and returns it as an ActorID.
func ParseActorID(s string) (ActorID, error) {
	u, err := parseUUID(s, "actor")
	return ActorID(u), err
}

// ParseDraftID validates s as a non-nil uuid and returns it as a DraftID.
func ParseDraftID(s string) (DraftID, error) {
	u, err := parseUUID(s, "draft")
	return DraftID(u), err
}

// ParseEvidenceID validates s as a non-nil uuid and returns it as an EvidenceID.
func ParseEvidenceID(s string) (EvidenceID, error) {
	u, err := parseUUID(s, "evidence")
	return EvidenceID(u), err
}

// ParseEntityID validates s as a non-nil uuid and returns it as an EntityID.
func ParseEntityID(s string) (EntityID, error) {
	u, err := parseUUID(s, "entity")
	return EntityID(u), err
}

// ParseProfileID validates s as a non-nil uuid and returns it as a ProfileID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID(s, "profile")
	return ProfileID(u), err
}

// ParseRuleID validates s as a non-nil uuid and returns it as a RuleID.
func ParseRuleID(s string) (RuleID, error) {
	u, err := parseUUID(s, "rule")
	return RuleID(u), err
}

// ParseResultID validates s as a non-nil uuid and returns it as a ResultID.
func ParseResultID(s string) (ResultID, error) {
	u, err := parseUUID(s, "result")
	return ResultID(u), err
}

// ParseAttachmentID validates s as a non-nil uuid and returns it as an
// AttachmentID.
func ParseAttachmentID(s string) (AttachmentID, error) {
	u, err := parseUUID(s, "attachment")
	return AttachmentID(u), err
}

// ParseContextID validates s as a non-nil uuid and returns it as a ContextID.
func ParseContextID(s string) (ContextID, error) {
	u, err := parseUUID(s, "context")
	return ContextID(u), err
}

// ParseGapID validates s as a non-nil uuid and returns it as a GapID.
func ParseGapID(s string) (GapID, error) {
	u, err := parseUUID(s, "gap")
	return GapID(u), err
}

func (id TenantID) String() string     { return uuid.UUID(id).String() }
func (id ActorID) String() string      { return uuid.UUID(id).String() }
func (id DraftID) String() string      { return uuid.UUID(id).String() }
func (id EvidenceID) String() string   { return uuid.UUID(id).String() }
func (id AttachmentID) String() string { return uuid.UUID(id).String() }
func (id EntityID) String() string     { return uuid.UUID(id).String() }
func (id ProfileID) String() string    { return uuid.UUID(id).String() }
func (id RuleID) String() string       { return uuid.UUID(id).String() }
func (id ContextID) String() string    { return uuid.UUID(id).String() }
func (id ResultID) String() string     { return uuid.UUID(id).String() }
func (id GapID) String() string        { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ActorID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DraftID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id EvidenceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EntityID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ResultID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
