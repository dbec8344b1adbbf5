package evidence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"veritas/internal/audit"
	"veritas/internal/canonical"
	"veritas/internal/command"
	"veritas/internal/entity"
	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

func sealViolations(t *testing.T, err error) []dErrors.Violation {
	t.Helper()
	de, ok := dErrors.Load(err)
	require.True(t, ok)
	return de.Violations
}

type serviceFixture struct {
	svc      *Service
	entities *entity.MemoryStore
	auditor  *audit.Publisher
	tenantID id.TenantID
	actorID  id.ActorID
	now      time.Time
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	entities := entity.NewMemoryStore()
	auditor := audit.NewPublisher(audit.NewInMemoryStore(), nil, nil)
	svc := NewService(ServiceDeps{
		Drafts:      NewMemoryDraftStore(),
		Attachments: NewMemoryAttachmentStore(),
		Sealed:      NewMemorySealedStore(),
		Profiles:    NewMemoryProfileStore(),
		Targets:     targetDirectory{entities},
		Auditor:     auditor,
		Commands:    command.NewExecutor(command.NewInMemoryStore(), time.Hour),
	})
	return &serviceFixture{
		svc:      svc,
		entities: entities,
		auditor:  auditor,
		tenantID: id.TenantID(uuid.New()),
		actorID:  id.ActorID(uuid.New()),
		now:      time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC),
	}
}

type targetDirectory struct {
	store *entity.MemoryStore
}

func (d targetDirectory) Exists(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (bool, error) {
	_, err := d.store.FindByID(ctx, tenantID, entityID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *serviceFixture) ctx() context.Context {
	ctx := requestcontext.WithTenantID(context.Background(), f.tenantID)
	ctx = requestcontext.WithActorID(ctx, f.actorID)
	return requestcontext.WithTime(ctx, f.now)
}

func (f *serviceFixture) registerEntity(t *testing.T) id.EntityID {
	t.Helper()
	e := &entity.Entity{
		ID:        id.EntityID(uuid.New()),
		TenantID:  f.tenantID,
		Kind:      entity.KindSite,
		Name:      "Plant 7",
		CreatedAt: f.now,
	}
	require.NoError(t, f.entities.Create(context.Background(), e))
	return e.ID
}

func (f *serviceFixture) validInput(target id.EntityID) DraftInput {
	return DraftInput{
		Scope:           "site",
		TargetEntityID:  &target,
		EvidenceType:    "iso14001_certificate",
		Justification:   "Annual surveillance audit certificate for site scope",
		PurposeTags:     []string{"esg_reporting"},
		RetentionPolicy: "7_years",
		IngestionMethod: "manual_declaration",
	}
}

func TestSealHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), f.validInput(target))
	require.NoError(t, err)

	sealed, replayed, err := f.svc.Seal(ctx, draft.ID, "seal-1")
	require.NoError(t, err)
	require.False(t, replayed)

	require.Equal(t, "SEALED", string(sealed.LedgerState))
	require.Equal(t, "low", string(sealed.TrustLevel))
	require.Equal(t, "pending_review", string(sealed.ReviewStatus))
	require.Nil(t, sealed.PayloadDigest)
	require.False(t, sealed.MetadataDigest.IsZero())
	require.Equal(t, f.now, sealed.SealedAt)
	// 7_years is calendar arithmetic, not day counting.
	require.Equal(t, time.Date(2033, 1, 27, 10, 0, 0, 0, time.UTC), sealed.RetentionEnd)

	stored, err := f.svc.GetEvidence(ctx, sealed.ID)
	require.NoError(t, err)
	require.Equal(t, sealed.MetadataDigest, stored.MetadataDigest)
}

func TestSealReportsAllViolationsAtOnce(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()

	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), DraftInput{
		Scope:           "site",
		EvidenceType:    "audit_report",
		Justification:   "too short",
		RetentionPolicy: "1_year",
		IngestionMethod: "file_upload",
	})
	require.NoError(t, err)

	_, _, err = f.svc.Seal(ctx, draft.ID, "seal-all")
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	fields := make(map[string]bool)
	for _, v := range sealViolations(t, err) {
		fields[v.Field] = true
	}
	require.True(t, fields["justification"])
	require.True(t, fields["purpose_tags"])
	require.True(t, fields["target_entity_id"])
	require.True(t, fields["attachments"])

	// A failed seal leaves the draft mutable.
	reloaded, err := f.svc.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	require.Equal(t, "DRAFTING", string(reloaded.Status))
}

func TestSealIdempotencyAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), f.validInput(target))
	require.NoError(t, err)

	first, replayed, err := f.svc.Seal(ctx, draft.ID, "seal-cmd")
	require.NoError(t, err)
	require.False(t, replayed)

	t.Run("same command id replays the original receipt", func(t *testing.T) {
		second, replayed, err := f.svc.Seal(ctx, draft.ID, "seal-cmd")
		require.NoError(t, err)
		require.True(t, replayed)
		require.Equal(t, first.ID, second.ID)
		require.Equal(t, first.MetadataDigest, second.MetadataDigest)
	})

	t.Run("different command id conflicts", func(t *testing.T) {
		_, _, err := f.svc.Seal(ctx, draft.ID, "seal-other")
		require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("sealed draft rejects updates and attachments", func(t *testing.T) {
		_, err := f.svc.UpdateDraft(ctx, draft.ID, f.validInput(target))
		require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

		_, err = f.svc.Attach(ctx, draft.ID, []byte("late"))
		require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestSealUnknownScopeQuarantines(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()

	due := f.now.Add(30 * 24 * time.Hour)
	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), DraftInput{
		Scope:            "unknown",
		EvidenceType:     "supplier_attestation",
		Justification:    "Scope assignment pending supplier clarification",
		PurposeTags:      []string{"supply_chain"},
		RetentionPolicy:  "3_years",
		IngestionMethod:  "manual_declaration",
		QuarantineReason: "supplier has not confirmed which site this covers",
		ResolutionDue:    &due,
	})
	require.NoError(t, err)

	sealed, _, err := f.svc.Seal(ctx, draft.ID, "seal-q")
	require.NoError(t, err)
	require.Equal(t, "QUARANTINED", string(sealed.LedgerState))
	require.Equal(t, "needs_resolution", string(sealed.ReviewStatus))

	reloaded, err := f.svc.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	require.Equal(t, "QUARANTINED", string(reloaded.Status))
}

func TestSealUnknownScopeRequiresResolutionPlan(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()

	tooFar := f.now.Add(120 * 24 * time.Hour)
	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), DraftInput{
		Scope:           "unknown",
		EvidenceType:    "supplier_attestation",
		Justification:   "Scope assignment pending supplier clarification",
		PurposeTags:     []string{"supply_chain"},
		RetentionPolicy: "3_years",
		IngestionMethod: "manual_declaration",
		ResolutionDue:   &tooFar,
	})
	require.NoError(t, err)

	_, _, err = f.svc.Seal(ctx, draft.ID, "seal-q-bad")
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	fields := make(map[string]string)
	for _, v := range sealViolations(t, err) {
		fields[v.Field] = v.Message
	}
	require.Contains(t, fields, "quarantine_reason")
	require.Contains(t, fields, "resolution_due_date")
}

func TestSealPersonalDataRequiresLegalBasis(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	in := f.validInput(target)
	in.PersonalData = true
	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), in)
	require.NoError(t, err)

	_, _, err = f.svc.Seal(ctx, draft.ID, "seal-gdpr")
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	var hasBasis bool
	for _, v := range sealViolations(t, err) {
		if v.Field == "gdpr_legal_basis" {
			hasBasis = true
		}
	}
	require.True(t, hasBasis)
}

func TestSealFileBackedComputesPayloadDigest(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	in := f.validInput(target)
	in.IngestionMethod = "file_upload"
	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), in)
	require.NoError(t, err)

	a1, err := f.svc.Attach(ctx, draft.ID, []byte("certificate pdf bytes"))
	require.NoError(t, err)
	a2, err := f.svc.Attach(ctx, draft.ID, []byte("audit worksheet bytes"))
	require.NoError(t, err)
	require.NotEqual(t, a1.Digest, a2.Digest)

	sealed, _, err := f.svc.Seal(ctx, draft.ID, "seal-files")
	require.NoError(t, err)
	require.NotNil(t, sealed.PayloadDigest)
	require.Equal(t, "medium", string(sealed.TrustLevel))
}

func TestCrossTenantDraftIsInvisible(t *testing.T) {
	f := newFixture(t)
	target := f.registerEntity(t)

	draft, _, err := f.svc.CreateDraft(f.ctx(), uuid.NewString(), f.validInput(target))
	require.NoError(t, err)

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	otherCtx = requestcontext.WithTime(otherCtx, f.now)

	_, err = f.svc.GetDraft(otherCtx, draft.ID)
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = f.svc.UpdateDraft(otherCtx, draft.ID, f.validInput(target))
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, _, err = f.svc.Seal(otherCtx, draft.ID, "seal-foreign")
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCrossTenantTargetDoesNotResolve(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()

	foreign := &entity.Entity{
		ID:        id.EntityID(uuid.New()),
		TenantID:  id.TenantID(uuid.New()),
		Kind:      entity.KindSite,
		Name:      "Someone else's plant",
		CreatedAt: f.now,
	}
	require.NoError(t, f.entities.Create(context.Background(), foreign))

	in := f.validInput(foreign.ID)
	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), in)
	require.NoError(t, err)

	_, _, err = f.svc.Seal(ctx, draft.ID, "seal-foreign-target")
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	var hasTarget bool
	for _, v := range sealViolations(t, err) {
		if v.Field == "target_entity_id" {
			hasTarget = true
		}
	}
	require.True(t, hasTarget)
}

func TestSealRecordsExactlyOneAuditEvent(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), f.validInput(target))
	require.NoError(t, err)

	_, _, err = f.svc.Seal(ctx, draft.ID, "seal-audit")
	require.NoError(t, err)
	// Replay must not append a second ledger entry.
	_, _, err = f.svc.Seal(ctx, draft.ID, "seal-audit")
	require.NoError(t, err)

	events, err := f.auditor.List(ctx, f.tenantID, 100)
	require.NoError(t, err)

	var sealEvents int
	for _, e := range events {
		if e.Type == audit.EventEvidenceSealed {
			sealEvents++
		}
	}
	require.Equal(t, 1, sealEvents)
}

func TestMetadataDigestIgnoresPurposeTagOrder(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	in1 := f.validInput(target)
	in1.PurposeTags = []string{"esg_reporting", "csrd", "audit_prep"}
	in2 := f.validInput(target)
	in2.PurposeTags = []string{"csrd", "audit_prep", "esg_reporting"}

	d1, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), in1)
	require.NoError(t, err)
	d2, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), in2)
	require.NoError(t, err)

	s1, _, err := f.svc.Seal(ctx, d1.ID, "seal-tags-1")
	require.NoError(t, err)
	s2, _, err := f.svc.Seal(ctx, d2.ID, "seal-tags-2")
	require.NoError(t, err)

	// Digests differ only through draft identity; strip it by comparing the
	// canonical declarations directly.
	copy1 := *d1
	copy2 := *d2
	copy1.ID = copy2.ID
	require.NotEqual(t, s1.ID, s2.ID)
	require.Equal(t,
		mustMetadataDigest(t, &copy1),
		mustMetadataDigest(t, &copy2),
	)
}

func mustMetadataDigest(t *testing.T, d *models.Draft) canonical.Digest {
	t.Helper()
	digest, err := canonical.SumCanonical(models.DeclarationOf(d))
	require.NoError(t, err)
	return digest
}

func TestRetentionCustomDays(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	in := f.validInput(target)
	in.RetentionPolicy = "custom_days"
	in.CustomRetentionDays = 45
	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), in)
	require.NoError(t, err)

	sealed, _, err := f.svc.Seal(ctx, draft.ID, "seal-custom")
	require.NoError(t, err)
	require.Equal(t, f.now.AddDate(0, 0, 45), sealed.RetentionEnd)
}

func TestRetentionCustomDaysRequiresPositiveCount(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx()
	target := f.registerEntity(t)

	in := f.validInput(target)
	in.RetentionPolicy = "custom_days"
	draft, _, err := f.svc.CreateDraft(ctx, uuid.NewString(), in)
	require.NoError(t, err)

	_, _, err = f.svc.Seal(ctx, draft.ID, "seal-custom-bad")
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
