package models

import (
	dErrors "veritas/pkg/domain-errors"
)

// Scope declares what organizational level a piece of evidence covers.
type Scope string

const (
	ScopeOrganization  Scope = "organization"
	ScopeLegalEntity   Scope = "legal_entity"
	ScopeSite          Scope = "site"
	ScopeProductFamily Scope = "product_family"
	// ScopeUnknown is allowed but forces quarantine at seal time until the
	// scope is resolved.
	ScopeUnknown Scope = "unknown"
)

// RequiresTarget reports whether the scope must name a subject entity.
func (s Scope) RequiresTarget() bool {
	switch s {
	case ScopeLegalEntity, ScopeSite, ScopeProductFamily:
		return true
	}
	return false
}

// ParseScope validates s against the scope enumeration.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeOrganization, ScopeLegalEntity, ScopeSite, ScopeProductFamily, ScopeUnknown:
		return Scope(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown declared scope: "+s)
}

// LegalBasis enumerates the lawful grounds for processing personal data.
// Required whenever the personal-data flag is set.
type LegalBasis string

const (
	LegalBasisConsent            LegalBasis = "consent"
	LegalBasisContract           LegalBasis = "contract"
	LegalBasisLegalObligation    LegalBasis = "legal_obligation"
	LegalBasisVitalInterest      LegalBasis = "vital_interest"
	LegalBasisPublicTask         LegalBasis = "public_task"
	LegalBasisLegitimateInterest LegalBasis = "legitimate_interest"
)

// ParseLegalBasis validates s against the fixed enumeration.
func ParseLegalBasis(s string) (LegalBasis, error) {
	switch LegalBasis(s) {
	case LegalBasisConsent, LegalBasisContract, LegalBasisLegalObligation,
		LegalBasisVitalInterest, LegalBasisPublicTask, LegalBasisLegitimateInterest:
		return LegalBasis(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown legal basis: "+s)
}

// RetentionPolicy names a fixed retention duration applied at seal time.
type RetentionPolicy string

const (
	RetentionOneYear    RetentionPolicy = "1_year"
	RetentionThreeYears RetentionPolicy = "3_years"
	RetentionSevenYears RetentionPolicy = "7_years"
	RetentionTenYears   RetentionPolicy = "10_years"
	// RetentionCustomDays uses the draft's custom day count.
	RetentionCustomDays RetentionPolicy = "custom_days"
)

// ParseRetentionPolicy validates s against the policy table.
func ParseRetentionPolicy(s string) (RetentionPolicy, error) {
	switch RetentionPolicy(s) {
	case RetentionOneYear, RetentionThreeYears, RetentionSevenYears,
		RetentionTenYears, RetentionCustomDays:
		return RetentionPolicy(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown retention policy: "+s)
}

// IngestionMethod records how the evidence entered the platform. It derives
// the trust level and decides whether file attachments are mandatory.
type IngestionMethod string

const (
	IngestionManualDeclaration IngestionMethod = "manual_declaration"
	IngestionFileUpload        IngestionMethod = "file_upload"
	IngestionSupplierPortal    IngestionMethod = "supplier_portal"
	IngestionSystemFeed        IngestionMethod = "system_feed"
	IngestionAuditorSubmission IngestionMethod = "auditor_submission"
)

// ParseIngestionMethod validates s against the method enumeration.
func ParseIngestionMethod(s string) (IngestionMethod, error) {
	switch IngestionMethod(s) {
	case IngestionManualDeclaration, IngestionFileUpload, IngestionSupplierPortal,
		IngestionSystemFeed, IngestionAuditorSubmission:
		return IngestionMethod(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown ingestion method: "+s)
}

// FileBacked reports whether the method implies at least one attachment.
func (m IngestionMethod) FileBacked() bool {
	switch m {
	case IngestionFileUpload, IngestionSupplierPortal, IngestionAuditorSubmission:
		return true
	}
	return false
}

// TrustLevel is derived from the ingestion method at seal time, never
// declared by the caller.
type TrustLevel string

const (
	TrustLow    TrustLevel = "low"
	TrustMedium TrustLevel = "medium"
	TrustHigh   TrustLevel = "high"
)

// TrustLevel maps the ingestion method onto the derived trust level.
func (m IngestionMethod) TrustLevel() TrustLevel {
	switch m {
	case IngestionManualDeclaration:
		return TrustLow
	case IngestionFileUpload, IngestionSupplierPortal:
		return TrustMedium
	case IngestionSystemFeed, IngestionAuditorSubmission:
		return TrustHigh
	}
	return TrustLow
}

// LedgerState is the terminal state of sealed evidence.
type LedgerState string

const (
	LedgerSealed      LedgerState = "SEALED"
	LedgerQuarantined LedgerState = "QUARANTINED"
)

// DraftStatus tracks a draft through its lifecycle. VALIDATING is transient
// within a seal call; REJECTED is a response, not a stored state, so neither
// appears here.
type DraftStatus string

const (
	DraftStatusDrafting    DraftStatus = "DRAFTING"
	DraftStatusSealed      DraftStatus = "SEALED"
	DraftStatusQuarantined DraftStatus = "QUARANTINED"
)

// ReviewStatus tracks the human review of sealed evidence. It lives outside
// the immutable seal payload; review decisions create new versions.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending_review"
	ReviewUnresolved ReviewStatus = "needs_resolution"
)
