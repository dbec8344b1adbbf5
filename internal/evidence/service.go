// Package evidence implements the evidence ledger: draft staging, attachment
// binding, and the seal operation that turns a declaration into an immutable,
// digest-fingerprinted record.
package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veritas/internal/audit"
	"veritas/internal/canonical"
	"veritas/internal/command"
	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
	pstrings "veritas/pkg/platform/strings"
	"veritas/pkg/platform/tx"
	"veritas/pkg/requestcontext"
)

// DraftStore persists evidence drafts. All lookups are tenant-filtered;
// cross-tenant ids resolve to sentinel.ErrNotFound.
type DraftStore interface {
	Create(ctx context.Context, d *models.Draft) error
	FindByID(ctx context.Context, tenantID id.TenantID, draftID id.DraftID) (*models.Draft, error)
	Update(ctx context.Context, d *models.Draft) error
}

// AttachmentStore persists attachment records. Attachments are append-only.
type AttachmentStore interface {
	Create(ctx context.Context, a *models.Attachment) error
	ListByDraft(ctx context.Context, tenantID id.TenantID, draftID id.DraftID) ([]models.Attachment, error)
}

// SealedStore persists sealed evidence. Create is conditional on
// (tenant, draft): a second seal attempt returns sentinel.ErrConflict even
// when two instances race past the command ledger.
type SealedStore interface {
	Create(ctx context.Context, e *models.SealedEvidence) error
	FindByID(ctx context.Context, tenantID id.TenantID, evidenceID id.EvidenceID) (*models.SealedEvidence, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID, state models.LedgerState) ([]models.SealedEvidence, error)
}

// ProfileStore persists ingestion profiles.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	FindByID(ctx context.Context, tenantID id.TenantID, profileID id.ProfileID) (*models.Profile, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]models.Profile, error)
	SetActive(ctx context.Context, tenantID id.TenantID, profileID id.ProfileID, active bool) (*models.Profile, error)
}

// TargetDirectory resolves declared target entities within a tenant.
type TargetDirectory interface {
	Exists(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (bool, error)
}

// AuditPublisher records evidence state transitions in the tamper-evident
// ledger and streams them post-commit.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
	Stream(ctx context.Context, event audit.Event)
}

// sourceRoleDeclarant is the role recorded when no ingestion profile binds
// the evidence to an external source.
const sourceRoleDeclarant = "declarant"

// Service orchestrates the evidence lifecycle.
type Service struct {
	drafts      DraftStore
	attachments AttachmentStore
	sealed      SealedStore
	profiles    ProfileStore
	targets     TargetDirectory
	auditor     AuditPublisher
	commands    *command.Executor
	runner      tx.Runner
	logger      *slog.Logger
	metrics     *Metrics
}

// ServiceDeps carries the required collaborators for NewService.
type ServiceDeps struct {
	Drafts      DraftStore
	Attachments AttachmentStore
	Sealed      SealedStore
	Profiles    ProfileStore
	Targets     TargetDirectory
	Auditor     AuditPublisher
	Commands    *command.Executor
	Runner      tx.Runner
	Logger      *slog.Logger
	Metrics     *Metrics
}

func NewService(deps ServiceDeps) *Service {
	if deps.Runner == nil {
		deps.Runner = &tx.NoopRunner{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		drafts:      deps.Drafts,
		attachments: deps.Attachments,
		sealed:      deps.Sealed,
		profiles:    deps.Profiles,
		targets:     deps.Targets,
		auditor:     deps.Auditor,
		commands:    deps.Commands,
		runner:      deps.Runner,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// DraftInput carries the declared facts for draft creation and update.
// Fields are accepted as given; completeness is enforced at seal time.
type DraftInput struct {
	Scope               models.Scope
	TargetEntityID      *id.EntityID
	EvidenceType        string
	Justification       string
	PurposeTags         []string
	PersonalData        bool
	LegalBasis          models.LegalBasis
	RetentionPolicy     models.RetentionPolicy
	CustomRetentionDays int
	IngestionMethod     models.IngestionMethod
	ProfileID           *id.ProfileID
	QuarantineReason    string
	ResolutionDue       *time.Time
	Payload             json.RawMessage
}

// CreateDraft stages a new declaration. Replays with the same command id
// return the originally created draft.
func (s *Service) CreateDraft(ctx context.Context, commandID string, in DraftInput) (*models.Draft, bool, error) {
	return command.Run(ctx, s.commands, requestcontext.TenantID(ctx), commandID,
		func(ctx context.Context) (*models.Draft, error) {
			now := requestcontext.Now(ctx).UTC()
			d := &models.Draft{
				ID:        id.DraftID(uuid.New()),
				TenantID:  requestcontext.TenantID(ctx),
				Status:    models.DraftStatusDrafting,
				CreatedBy: requestcontext.ActorID(ctx),
				CreatedAt: now,
				UpdatedAt: now,
			}
			applyInput(d, in)

			if err := s.drafts.Create(ctx, d); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create draft")
			}
			s.audit(ctx, audit.EventDraftCreated, d.TenantID, map[string]string{"draft_id": d.ID.String()})
			if s.metrics != nil {
				s.metrics.DraftsCreated.Inc()
			}
			return d, nil
		})
}

// UpdateDraft replaces the declared facts of a draft that is still mutable.
func (s *Service) UpdateDraft(ctx context.Context, draftID id.DraftID, in DraftInput) (*models.Draft, error) {
	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := d.CanMutate(); err != nil {
		return nil, err
	}

	applyInput(d, in)
	d.UpdatedAt = requestcontext.Now(ctx).UTC()

	if err := s.drafts.Update(ctx, d); err != nil {
		return nil, wrapNotFound(err, "draft not found")
	}
	s.audit(ctx, audit.EventDraftUpdated, d.TenantID, map[string]string{"draft_id": d.ID.String()})
	return d, nil
}

// GetDraft returns a draft owned by the calling tenant.
func (s *Service) GetDraft(ctx context.Context, draftID id.DraftID) (*models.Draft, error) {
	return s.loadDraft(ctx, draftID)
}

// Attach binds uploaded content to a mutable draft. The digest is computed
// here, once, over the raw bytes; the record is immutable afterwards.
func (s *Service) Attach(ctx context.Context, draftID id.DraftID, content []byte) (*models.Attachment, error) {
	if len(content) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "attachment content must not be empty")
	}

	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := d.CanMutate(); err != nil {
		return nil, err
	}

	a := &models.Attachment{
		ID:         id.AttachmentID(uuid.New()),
		DraftID:    d.ID,
		TenantID:   d.TenantID,
		ByteLength: int64(len(content)),
		Digest:     canonical.Sum(content),
		CreatedAt:  requestcontext.Now(ctx).UTC(),
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store attachment")
	}
	s.audit(ctx, audit.EventAttachmentAdded, d.TenantID, map[string]string{
		"draft_id":      d.ID.String(),
		"attachment_id": a.ID.String(),
		"digest":        a.Digest.String(),
	})
	return a, nil
}

// Seal validates the complete declaration and, when every check passes,
// writes the immutable sealed record. All violations are reported together;
// a failed seal leaves the draft mutable. Replays with the same command id
// return the original receipt.
func (s *Service) Seal(ctx context.Context, draftID id.DraftID, commandID string) (*models.SealedEvidence, bool, error) {
	return command.Run(ctx, s.commands, requestcontext.TenantID(ctx), commandID,
		func(ctx context.Context) (*models.SealedEvidence, error) {
			return s.sealOnce(ctx, draftID)
		})
}

func (s *Service) sealOnce(ctx context.Context, draftID id.DraftID) (*models.SealedEvidence, error) {
	d, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := d.CanMutate(); err != nil {
		return nil, err
	}

	attachments, err := s.attachments.ListByDraft(ctx, d.TenantID, d.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attachments")
	}

	now := requestcontext.Now(ctx).UTC()
	violations, err := validateForSeal(ctx, d, attachments, now, s.targets.Exists)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "seal validation failed")
	}

	sourceRole := sourceRoleDeclarant
	if d.ProfileID != nil {
		profile, err := s.profiles.FindByID(ctx, d.TenantID, *d.ProfileID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			violations = append(violations, dErrors.Violation{Field: "profile_id", Message: "unknown ingestion profile"})
		case err != nil:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ingestion profile")
		default:
			sourceRole = profile.SourceRole
		}
	}

	retentionEnd, err := RetentionEnd(d.RetentionPolicy, d.CustomRetentionDays, now)
	if err != nil {
		violations = append(violations, dErrors.Violation{Field: "retention_policy", Message: err.Error()})
	}

	if len(violations) > 0 {
		if s.metrics != nil {
			s.metrics.SealRejected.Inc()
		}
		return nil, dErrors.NewValidation(violations)
	}

	metadataDigest, err := canonical.SumCanonical(models.DeclarationOf(d))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fingerprint declaration")
	}

	var payloadDigest *canonical.Digest
	if leaves := attachmentDigests(attachments); len(leaves) > 0 {
		root, err := canonical.TreeRoot(leaves)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute payload digest")
		}
		payloadDigest = &root
	}

	state := models.LedgerSealed
	review := models.ReviewPending
	if d.Scope == models.ScopeUnknown {
		state = models.LedgerQuarantined
		review = models.ReviewUnresolved
	}

	sealed := &models.SealedEvidence{
		ID:             id.EvidenceID(uuid.New()),
		DraftID:        d.ID,
		TenantID:       d.TenantID,
		LedgerState:    state,
		PayloadDigest:  payloadDigest,
		MetadataDigest: metadataDigest,
		SealedAt:       now,
		RetentionEnd:   retentionEnd,
		TrustLevel:     d.IngestionMethod.TrustLevel(),
		ReviewStatus:   review,
		EvidenceType:   d.EvidenceType,
		Scope:          d.Scope,
		TargetEntityID: d.TargetEntityID,
		ProfileID:      d.ProfileID,
		SourceRole:     sourceRole,
		Payload:        d.Payload,
	}

	eventType := audit.EventEvidenceSealed
	if state == models.LedgerQuarantined {
		eventType = audit.EventEvidenceQuarantined
	}
	event := audit.Event{
		TenantID: d.TenantID,
		Type:     eventType,
		Detail: mustDetail(map[string]string{
			"evidence_id":     sealed.ID.String(),
			"draft_id":        d.ID.String(),
			"ledger_state":    string(state),
			"metadata_digest": metadataDigest.String(),
		}),
	}

	err = s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.sealed.Create(txCtx, sealed); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "evidence is already sealed for this draft")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write sealed evidence")
		}
		d.ApplySealOutcome(state, now)
		if err := s.drafts.Update(txCtx, d); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to finalize draft")
		}
		if s.auditor != nil {
			return s.auditor.Emit(txCtx, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.Stream(ctx, event)
	}
	if s.metrics != nil {
		s.metrics.Sealed.WithLabelValues(string(state)).Inc()
	}
	return sealed, nil
}

// GetEvidence returns a sealed record owned by the calling tenant.
func (s *Service) GetEvidence(ctx context.Context, evidenceID id.EvidenceID) (*models.SealedEvidence, error) {
	e, err := s.sealed.FindByID(ctx, requestcontext.TenantID(ctx), evidenceID)
	if err != nil {
		return nil, wrapNotFound(err, "evidence not found")
	}
	return e, nil
}

// CreateProfile registers a tenant-scoped ingestion profile.
func (s *Service) CreateProfile(ctx context.Context, tenantID id.TenantID, name, sourceRole string) (*models.Profile, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "profile name is required")
	}
	if sourceRole == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "source role is required")
	}
	p := &models.Profile{
		ID:         id.ProfileID(uuid.New()),
		TenantID:   tenantID,
		Name:       name,
		SourceRole: sourceRole,
		Active:     true,
		CreatedAt:  requestcontext.Now(ctx).UTC(),
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}
	return p, nil
}

// SetProfileActive toggles whether evidence ingested under the profile
// counts toward readiness.
func (s *Service) SetProfileActive(ctx context.Context, tenantID id.TenantID, profileID id.ProfileID, active bool) (*models.Profile, error) {
	p, err := s.profiles.SetActive(ctx, tenantID, profileID, active)
	if err != nil {
		return nil, wrapNotFound(err, "profile not found")
	}
	return p, nil
}

// ListProfiles returns the tenant's ingestion profiles.
func (s *Service) ListProfiles(ctx context.Context, tenantID id.TenantID) ([]models.Profile, error) {
	return s.profiles.ListByTenant(ctx, tenantID)
}

func (s *Service) loadDraft(ctx context.Context, draftID id.DraftID) (*models.Draft, error) {
	d, err := s.drafts.FindByID(ctx, requestcontext.TenantID(ctx), draftID)
	if err != nil {
		return nil, wrapNotFound(err, "draft not found")
	}
	return d, nil
}

func (s *Service) audit(ctx context.Context, eventType audit.EventType, tenantID id.TenantID, detail map[string]string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{TenantID: tenantID, Type: eventType, Detail: mustDetail(detail)}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			slog.String("event", string(eventType)),
			slog.Any("error", err))
		return
	}
	s.auditor.Stream(ctx, event)
}

func applyInput(d *models.Draft, in DraftInput) {
	d.Scope = in.Scope
	d.TargetEntityID = in.TargetEntityID
	d.EvidenceType = in.EvidenceType
	d.Justification = in.Justification
	d.PurposeTags = pstrings.DedupeAndTrim(in.PurposeTags)
	d.PersonalData = in.PersonalData
	d.LegalBasis = in.LegalBasis
	d.RetentionPolicy = in.RetentionPolicy
	d.CustomRetentionDays = in.CustomRetentionDays
	d.IngestionMethod = in.IngestionMethod
	d.ProfileID = in.ProfileID
	d.QuarantineReason = in.QuarantineReason
	d.ResolutionDue = in.ResolutionDue
	d.Payload = in.Payload
}

func attachmentDigests(attachments []models.Attachment) []canonical.Digest {
	var leaves []canonical.Digest
	for _, a := range attachments {
		if !a.Digest.IsZero() {
			leaves = append(leaves, a.Digest)
		}
	}
	return leaves
}

func wrapNotFound(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	if _, ok := dErrors.Load(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store failure")
}

func mustDetail(detail map[string]string) json.RawMessage {
	raw, _ := json.Marshal(detail)
	return raw
}
