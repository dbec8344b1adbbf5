// Package readiness implements deterministic rule evaluation: given a tenant's
// sealed evidence and the global rule table for a framework, it derives a
// reproducible readiness verdict whose digest a third party can verify
// without re-trusting the engine.
package readiness

import (
	"time"

	"veritas/internal/canonical"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// ExecutionMode is a required enumeration with no default. Absence is a
// validation error, never a fallback: silently defaulting execution context
// is a correctness hazard in a regulator-facing system.
type ExecutionMode string

const (
	ModeProduction ExecutionMode = "production"
	ModeTest       ExecutionMode = "test"
	ModeHostile    ExecutionMode = "hostile"
)

func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch ExecutionMode(s) {
	case ModeProduction, ModeTest, ModeHostile:
		return ExecutionMode(s), nil
	case "":
		return "", dErrors.New(dErrors.CodeValidation, "execution_mode is required and has no default")
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown execution_mode: "+s)
}

// IntendedUseAll matches every evaluation regardless of declared use.
const IntendedUseAll = "ALL"

// Status is the derived readiness verdict.
type Status string

const (
	StatusReady       Status = "READY"
	StatusProvisional Status = "PROVISIONAL"
	StatusBlocked     Status = "BLOCKED"
)

// Outcome is a single rule's verdict. Every applicable rule produces
// exactly one.
type Outcome string

const (
	OutcomePass Outcome = "PASS"
	OutcomeGap  Outcome = "GAP"
)

// GapClass distinguishes gaps that prevent readiness outright from gaps
// that merely downgrade the status to provisional.
type GapClass string

const (
	GapBlocking GapClass = "blocking"
	GapLimiting GapClass = "limiting"
)

// Rule is one entry in the read-only, globally shared rule table. Rules are
// never tenant-scoped.
type Rule struct {
	ID          id.RuleID `json:"id"`
	Framework   string    `json:"framework"`
	IntendedUse string    `json:"intended_use"`

	// Evidence matches a rule only when its type is in RequiredEvidenceTypes
	// AND its source role is in RequiredAuthorityTypes. Field paths are
	// checked only after that match succeeds.
	RequiredEvidenceTypes  []string `json:"required_evidence_types"`
	RequiredAuthorityTypes []string `json:"required_authority_types"`
	RequiredFieldPaths     []string `json:"required_field_paths,omitempty"`

	Mandatory bool     `json:"mandatory"`
	GapClass  GapClass `json:"gap_class"`

	Remediation     string   `json:"remediation"`
	LegalReferences []string `json:"legal_references,omitempty"`

	Active    bool      `json:"active"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// AppliesTo reports whether the rule participates in an evaluation with the
// given intended use.
func (r *Rule) AppliesTo(intendedUse string) bool {
	return r.IntendedUse == IntendedUseAll || r.IntendedUse == intendedUse
}

// Context is the immutable frame of one evaluation.
type Context struct {
	ID              id.ContextID  `json:"context_id"`
	TenantID        id.TenantID   `json:"tenant_id"`
	SubjectEntityID id.EntityID   `json:"subject_entity_id"`
	Framework       string        `json:"framework"`
	IntendedUse     string        `json:"intended_use"`
	ExecutionMode   ExecutionMode `json:"execution_mode"`
	CommandID       string        `json:"command_id"`
	CreatedAt       time.Time     `json:"created_at"`
}

// RuleOutcome records one rule's verdict inside a result, in rule table
// order.
type RuleOutcome struct {
	RuleID  id.RuleID `json:"rule_id"`
	Outcome Outcome   `json:"outcome"`
}

// Gap is one immutable materialized deficiency, produced for every GAP
// outcome on a mandatory rule.
type Gap struct {
	ID              id.GapID    `json:"gap_id"`
	ResultID        id.ResultID `json:"result_id"`
	TenantID        id.TenantID `json:"tenant_id"`
	RuleID          id.RuleID   `json:"rule_id"`
	Class           GapClass    `json:"class"`
	Remediation     string      `json:"remediation"`
	LegalReferences []string    `json:"legal_references,omitempty"`
}

// Result is the immutable outcome of one evaluation.
type Result struct {
	ID        id.ResultID  `json:"result_id"`
	ContextID id.ContextID `json:"context_id"`
	TenantID  id.TenantID  `json:"tenant_id"`

	Status      Status           `json:"status"`
	RulesPassed int              `json:"rules_passed"`
	RulesFailed int              `json:"rules_failed"`
	Digest      canonical.Digest `json:"evaluation_digest"`

	Outcomes []RuleOutcome `json:"outcomes"`
	Gaps     []Gap         `json:"gaps"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}
