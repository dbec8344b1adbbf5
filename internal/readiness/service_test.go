package readiness_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"veritas/internal/audit"
	"veritas/internal/canonical"
	"veritas/internal/command"
	"veritas/internal/evidence"
	"veritas/internal/evidence/models"
	"veritas/internal/readiness"
	"veritas/internal/readiness/mocks"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

type serviceFixture struct {
	svc      *readiness.Service
	resolver *mocks.MockEntityResolver
	sealed   *evidence.MemorySealedStore
	profiles *evidence.MemoryProfileStore
	rules    *readiness.MemoryRuleStore
	auditor  *audit.Publisher
	tenantID id.TenantID
	subject  id.EntityID
	now      time.Time
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &serviceFixture{
		resolver: mocks.NewMockEntityResolver(ctrl),
		sealed:   evidence.NewMemorySealedStore(),
		profiles: evidence.NewMemoryProfileStore(),
		rules:    readiness.NewMemoryRuleStore(),
		auditor:  audit.NewPublisher(audit.NewInMemoryStore(), nil, nil),
		tenantID: id.TenantID(uuid.New()),
		subject:  id.EntityID(uuid.New()),
		now:      time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC),
	}
	f.svc = readiness.NewService(readiness.ServiceDeps{
		Entities: f.resolver,
		Evidence: f.sealed,
		Profiles: f.profiles,
		Rules:    f.rules,
		Results:  readiness.NewMemoryResultStore(),
		Auditor:  f.auditor,
		Commands: command.NewExecutor(command.NewInMemoryStore(), time.Hour),
	})
	return f
}

func (f *serviceFixture) ctx() context.Context {
	ctx := requestcontext.WithTenantID(context.Background(), f.tenantID)
	return requestcontext.WithTime(ctx, f.now)
}

func (f *serviceFixture) input(commandID string) readiness.EvaluateInput {
	return readiness.EvaluateInput{
		SubjectEntityID: f.subject,
		Framework:       "csrd_2025",
		IntendedUse:     "regulatory_filing",
		CommandID:       commandID,
		ExecutionMode:   readiness.ModeProduction,
	}
}

func (f *serviceFixture) addRule(t *testing.T, mutate func(*readiness.Rule)) *readiness.Rule {
	t.Helper()
	r := &readiness.Rule{
		Framework:              "csrd_2025",
		RequiredEvidenceTypes:  []string{"iso14001_certificate"},
		RequiredAuthorityTypes: []string{"declarant"},
		Mandatory:              true,
		GapClass:               readiness.GapBlocking,
		Remediation:            "Obtain an ISO 14001 certificate",
	}
	if mutate != nil {
		mutate(r)
	}
	created, err := f.svc.CreateRule(f.ctx(), r)
	require.NoError(t, err)
	return created
}

func (f *serviceFixture) sealEvidence(t *testing.T, mutate func(*models.SealedEvidence)) {
	t.Helper()
	e := &models.SealedEvidence{
		ID:             id.EvidenceID(uuid.New()),
		DraftID:        id.DraftID(uuid.New()),
		TenantID:       f.tenantID,
		LedgerState:    models.LedgerSealed,
		MetadataDigest: mustDigest(t, uuid.NewString()),
		SealedAt:       f.now,
		EvidenceType:   "iso14001_certificate",
		Scope:          models.ScopeSite,
		TargetEntityID: &f.subject,
		SourceRole:     "declarant",
	}
	if mutate != nil {
		mutate(e)
	}
	require.NoError(t, f.sealed.Create(context.Background(), e))
}

func mustDigest(t *testing.T, seed string) canonical.Digest {
	t.Helper()
	return canonical.Sum([]byte(seed))
}

func TestEvaluatePersistsAndReplays(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(true, nil).AnyTimes()
	f.addRule(t, nil)
	f.sealEvidence(t, nil)

	first, replayed, err := f.svc.Evaluate(f.ctx(), f.input("eval-1"))
	require.NoError(t, err)
	require.False(t, replayed)
	require.Equal(t, readiness.StatusReady, first.Status)
	require.Equal(t, 1, first.RulesPassed)

	second, replayed, err := f.svc.Evaluate(f.ctx(), f.input("eval-1"))
	require.NoError(t, err)
	require.True(t, replayed)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Digest, second.Digest)

	stored, err := f.svc.GetResult(f.ctx(), first.ID)
	require.NoError(t, err)
	require.Equal(t, first.Digest, stored.Digest)

	events, err := f.auditor.List(f.ctx(), f.tenantID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, audit.EventReadinessEvaluated, events[0].Type)
}

func TestEvaluateRepeatedRunsShareDigest(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(true, nil).AnyTimes()
	f.addRule(t, nil)
	f.sealEvidence(t, nil)

	first, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-a"))
	require.NoError(t, err)
	second, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-b"))
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, first.Digest, second.Digest)
}

func TestEvaluateUnknownSubject(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(false, nil)

	_, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-missing"))
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestEvaluateGapMaterialization(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(true, nil).AnyTimes()
	rule := f.addRule(t, func(r *readiness.Rule) {
		r.Remediation = "Obtain an ISO 14001 certificate for the site"
		r.LegalReferences = []string{"CSRD Art. 29b"}
	})

	result, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-gap"))
	require.NoError(t, err)
	require.Equal(t, readiness.StatusBlocked, result.Status)
	require.Len(t, result.Gaps, 1)

	gap := result.Gaps[0]
	require.Equal(t, rule.ID, gap.RuleID)
	require.Equal(t, result.ID, gap.ResultID)
	require.Equal(t, readiness.GapBlocking, gap.Class)
	require.Equal(t, rule.Remediation, gap.Remediation)
	require.Equal(t, rule.LegalReferences, gap.LegalReferences)
	require.False(t, gap.ID.String() == uuid.Nil.String())
}

func TestEvaluateIgnoresQuarantinedEvidence(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(true, nil).AnyTimes()
	f.addRule(t, nil)
	f.sealEvidence(t, func(e *models.SealedEvidence) {
		e.LedgerState = models.LedgerQuarantined
	})

	result, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-quarantine"))
	require.NoError(t, err)
	require.Equal(t, readiness.StatusBlocked, result.Status)
}

func TestEvaluateInactiveProfileExcludesEvidence(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(true, nil).AnyTimes()
	f.addRule(t, func(r *readiness.Rule) {
		r.RequiredAuthorityTypes = []string{"supplier"}
	})

	profile := &models.Profile{
		ID:         id.ProfileID(uuid.New()),
		TenantID:   f.tenantID,
		Name:       "Supplier portal",
		SourceRole: "supplier",
		Active:     true,
		CreatedAt:  f.now,
	}
	require.NoError(t, f.profiles.Create(context.Background(), profile))
	f.sealEvidence(t, func(e *models.SealedEvidence) {
		e.ProfileID = &profile.ID
		e.SourceRole = "supplier"
	})

	result, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-active"))
	require.NoError(t, err)
	require.Equal(t, readiness.StatusReady, result.Status)

	_, err = f.profiles.SetActive(context.Background(), f.tenantID, profile.ID, false)
	require.NoError(t, err)

	result, _, err = f.svc.Evaluate(f.ctx(), f.input("eval-inactive"))
	require.NoError(t, err)
	require.Equal(t, readiness.StatusBlocked, result.Status)
}

func TestEvaluateCrossTenantResultInvisible(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(true, nil).AnyTimes()
	f.addRule(t, nil)
	f.sealEvidence(t, nil)

	result, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-isolated"))
	require.NoError(t, err)

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	_, err = f.svc.GetResult(otherCtx, result.ID)
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestEvaluateOrganizationScopeCoversAllSubjects(t *testing.T) {
	f := newFixture(t)
	f.resolver.EXPECT().Exists(gomock.Any(), f.tenantID, f.subject).Return(true, nil).AnyTimes()
	f.addRule(t, func(r *readiness.Rule) {
		r.RequiredEvidenceTypes = []string{"code_of_conduct"}
	})
	f.sealEvidence(t, func(e *models.SealedEvidence) {
		e.EvidenceType = "code_of_conduct"
		e.Scope = models.ScopeOrganization
		e.TargetEntityID = nil
	})

	result, _, err := f.svc.Evaluate(f.ctx(), f.input("eval-org"))
	require.NoError(t, err)
	require.Equal(t, readiness.StatusReady, result.Status)
}

func TestCreateRuleNormalizesVocabulary(t *testing.T) {
	f := newFixture(t)

	created := f.addRule(t, func(r *readiness.Rule) {
		r.RequiredEvidenceTypes = []string{"  ISO14001_Certificate ", "iso14001_certificate"}
		r.RequiredAuthorityTypes = []string{"Regulator", " REGULATOR ", "declarant"}
		r.RequiredFieldPaths = []string{" scope.Sites ", "scope.Sites"}
		r.LegalReferences = []string{"CSRD Art. 19a", "", "CSRD Art. 19a"}
	})

	require.Equal(t, []string{"iso14001_certificate"}, created.RequiredEvidenceTypes)
	require.Equal(t, []string{"regulator", "declarant"}, created.RequiredAuthorityTypes)
	require.Equal(t, []string{"scope.Sites"}, created.RequiredFieldPaths)
	require.Equal(t, []string{"CSRD Art. 19a"}, created.LegalReferences)
}

func TestCreateRuleBlankVocabularyIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateRule(f.ctx(), &readiness.Rule{
		Framework:              "csrd_2025",
		RequiredEvidenceTypes:  []string{"  ", ""},
		RequiredAuthorityTypes: []string{"declarant"},
		GapClass:               readiness.GapBlocking,
	})
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
