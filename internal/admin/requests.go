package admin

import (
	"strings"

	dErrors "veritas/pkg/domain-errors"
)

// TenantRequest creates a tenant.
type TenantRequest struct {
	Name string `json:"name"`
}

func (r *TenantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// EntityRequest registers a subject entity under a tenant.
type EntityRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func (r *EntityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Kind) == "" {
		return dErrors.New(dErrors.CodeValidation, "kind is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// ProfileRequest creates an ingestion profile.
type ProfileRequest struct {
	Name       string `json:"name"`
	SourceRole string `json:"source_role"`
}

func (r *ProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(r.SourceRole) == "" {
		return dErrors.New(dErrors.CodeValidation, "source_role is required")
	}
	return nil
}
