package evidence

import (
	"context"
	"time"

	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// minJustificationLen is the shortest acceptable free-text justification.
const minJustificationLen = 20

// maxResolutionWindow bounds how far out a quarantine resolution deadline
// may be set.
const maxResolutionWindow = 90 * 24 * time.Hour

// TargetResolver checks that a declared target entity exists inside the
// draft's tenant. Cross-tenant targets must resolve exactly like missing
// ones.
type TargetResolver func(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (bool, error)

// validateForSeal runs every seal check and reports all violations together;
// no short-circuiting, so the caller sees the complete repair list at once.
func validateForSeal(ctx context.Context, draft *models.Draft, attachments []models.Attachment, now time.Time, resolveTarget TargetResolver) ([]dErrors.Violation, error) {
	var c dErrors.Collector

	if len(draft.Justification) < minJustificationLen {
		c.Add("justification", "must be at least 20 characters")
	}

	if len(draft.PurposeTags) == 0 {
		c.Add("purpose_tags", "at least one purpose tag is required")
	}

	if draft.Scope.RequiresTarget() {
		switch {
		case draft.TargetEntityID == nil:
			c.Add("target_entity_id", "declared scope "+string(draft.Scope)+" requires a target entity")
		default:
			found, err := resolveTarget(ctx, draft.TenantID, *draft.TargetEntityID)
			if err != nil {
				return nil, err
			}
			if !found {
				c.Add("target_entity_id", "target entity does not exist in this tenant")
			}
		}
	}

	if draft.Scope == models.ScopeUnknown {
		if draft.QuarantineReason == "" {
			c.Add("quarantine_reason", "required when declared scope is unknown")
		}
		switch {
		case draft.ResolutionDue == nil:
			c.Add("resolution_due_date", "required when declared scope is unknown")
		case draft.ResolutionDue.After(now.Add(maxResolutionWindow)):
			c.Add("resolution_due_date", "must be within 90 days")
		case draft.ResolutionDue.Before(now):
			c.Add("resolution_due_date", "must not be in the past")
		}
	}

	if draft.PersonalData && draft.LegalBasis == "" {
		c.Add("gdpr_legal_basis", "required when personal data is declared")
	}

	if draft.IngestionMethod.FileBacked() {
		withDigest := 0
		for _, a := range attachments {
			if !a.Digest.IsZero() {
				withDigest++
			}
		}
		if withDigest == 0 {
			c.Add("attachments", "ingestion method "+string(draft.IngestionMethod)+" requires at least one attachment with a computed digest")
		}
	}

	return c.Violations(), nil
}
