package handler

import (
	"time"

	"veritas/internal/readiness"
)

// EvaluateResponse is the HTTP shape of a readiness result.
type EvaluateResponse struct {
	ResultID         string        `json:"result_id"`
	ContextID        string        `json:"context_id"`
	Status           string        `json:"status"`
	RulesPassed      int           `json:"rules_passed"`
	RulesFailed      int           `json:"rules_failed"`
	EvaluationDigest string        `json:"evaluation_digest"`
	Gaps             []GapResponse `json:"gaps"`
	EvaluatedAt      time.Time     `json:"evaluated_at"`
}

// GapResponse is one materialized deficiency with its remediation guidance.
type GapResponse struct {
	GapID           string   `json:"gap_id"`
	RuleID          string   `json:"rule_id"`
	Class           string   `json:"class"`
	Remediation     string   `json:"remediation"`
	LegalReferences []string `json:"legal_references,omitempty"`
}

// RuleResponse is the HTTP shape of a catalog rule.
type RuleResponse struct {
	ID                     string   `json:"id"`
	Framework              string   `json:"framework"`
	IntendedUse            string   `json:"intended_use"`
	RequiredEvidenceTypes  []string `json:"required_evidence_types"`
	RequiredAuthorityTypes []string `json:"required_authority_types"`
	RequiredFieldPaths     []string `json:"required_field_paths,omitempty"`
	Mandatory              bool     `json:"mandatory"`
	GapClass               string   `json:"gap_class"`
	Remediation            string   `json:"remediation"`
	LegalReferences        []string `json:"legal_references,omitempty"`
	Active                 bool     `json:"active"`
	Position               int      `json:"position"`
}

func FromRule(r *readiness.Rule) *RuleResponse {
	return &RuleResponse{
		ID:                     r.ID.String(),
		Framework:              r.Framework,
		IntendedUse:            r.IntendedUse,
		RequiredEvidenceTypes:  r.RequiredEvidenceTypes,
		RequiredAuthorityTypes: r.RequiredAuthorityTypes,
		RequiredFieldPaths:     r.RequiredFieldPaths,
		Mandatory:              r.Mandatory,
		GapClass:               string(r.GapClass),
		Remediation:            r.Remediation,
		LegalReferences:        r.LegalReferences,
		Active:                 r.Active,
		Position:               r.Position,
	}
}

func FromResult(r *readiness.Result) *EvaluateResponse {
	resp := &EvaluateResponse{
		ResultID:         r.ID.String(),
		ContextID:        r.ContextID.String(),
		Status:           string(r.Status),
		RulesPassed:      r.RulesPassed,
		RulesFailed:      r.RulesFailed,
		EvaluationDigest: r.Digest.String(),
		Gaps:             make([]GapResponse, 0, len(r.Gaps)),
		EvaluatedAt:      r.EvaluatedAt,
	}
	for _, g := range r.Gaps {
		resp.Gaps = append(resp.Gaps, GapResponse{
			GapID:           g.ID.String(),
			RuleID:          g.RuleID.String(),
			Class:           string(g.Class),
			Remediation:     g.Remediation,
			LegalReferences: g.LegalReferences,
		})
	}
	return resp
}
