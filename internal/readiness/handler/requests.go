package handler

import (
	"strings"

	"veritas/internal/readiness"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /readiness/evaluate.
// Missing or malformed fields are all reported together.
type EvaluateRequest struct {
	SubjectEntityID string `json:"subject_entity_id"`
	Framework       string `json:"framework"`
	IntendedUse     string `json:"intended_use"`
	CommandID       string `json:"command_id"`
	ExecutionMode   string `json:"execution_mode"`

	parsed readiness.EvaluateInput
}

// Validate validates and parses the request, enumerating every violation.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	var c dErrors.Collector
	in := readiness.EvaluateInput{
		Framework:   strings.TrimSpace(r.Framework),
		IntendedUse: strings.TrimSpace(r.IntendedUse),
		CommandID:   strings.TrimSpace(r.CommandID),
	}

	subject, err := id.ParseEntityID(r.SubjectEntityID)
	if err != nil {
		c.Add("subject_entity_id", "must be a valid entity id")
	}
	in.SubjectEntityID = subject

	if in.Framework == "" {
		c.Add("framework", "framework is required")
	}
	if in.IntendedUse == "" {
		in.IntendedUse = readiness.IntendedUseAll
	}
	if in.CommandID == "" {
		c.Add("command_id", "command_id is required")
	}

	mode, err := readiness.ParseExecutionMode(r.ExecutionMode)
	if err != nil {
		c.Add("execution_mode", "must be one of production, test, hostile; there is no default")
	}
	in.ExecutionMode = mode

	if err := c.Err(); err != nil {
		return err
	}
	r.parsed = in
	return nil
}

// ParsedInput returns the validated evaluation input.
func (r *EvaluateRequest) ParsedInput() readiness.EvaluateInput {
	return r.parsed
}

// RuleRequest is the HTTP request body for admin rule creation.
type RuleRequest struct {
	Framework              string   `json:"framework"`
	IntendedUse            string   `json:"intended_use"`
	RequiredEvidenceTypes  []string `json:"required_evidence_types"`
	RequiredAuthorityTypes []string `json:"required_authority_types"`
	RequiredFieldPaths     []string `json:"required_field_paths,omitempty"`
	Mandatory              bool     `json:"mandatory"`
	GapClass               string   `json:"gap_class"`
	Remediation            string   `json:"remediation"`
	LegalReferences        []string `json:"legal_references,omitempty"`
	Position               int      `json:"position"`
}

func (r *RuleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Framework = strings.TrimSpace(r.Framework)
	if r.Framework == "" {
		return dErrors.New(dErrors.CodeValidation, "framework is required")
	}
	return nil
}

// ToRule builds the domain rule; the service assigns id and activation.
func (r *RuleRequest) ToRule() *readiness.Rule {
	return &readiness.Rule{
		Framework:              r.Framework,
		IntendedUse:            r.IntendedUse,
		RequiredEvidenceTypes:  r.RequiredEvidenceTypes,
		RequiredAuthorityTypes: r.RequiredAuthorityTypes,
		RequiredFieldPaths:     r.RequiredFieldPaths,
		Mandatory:              r.Mandatory,
		GapClass:               readiness.GapClass(r.GapClass),
		Remediation:            r.Remediation,
		LegalReferences:        r.LegalReferences,
		Position:               r.Position,
	}
}
