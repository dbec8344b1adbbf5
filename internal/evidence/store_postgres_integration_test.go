//go:build integration

package evidence_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"veritas/internal/canonical"
	"veritas/internal/evidence"
	"veritas/internal/evidence/models"
	"veritas/internal/tenant"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/testutil/containers"
)

type SealedStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	drafts   *evidence.PostgresDraftStore
	sealed   *evidence.PostgresSealedStore
	tenantID id.TenantID
}

func TestSealedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SealedStoreSuite))
}

func (s *SealedStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.drafts = evidence.NewPostgresDraftStore(s.postgres.DB)
	s.sealed = evidence.NewPostgresSealedStore(s.postgres.DB)
}

func (s *SealedStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx,
		"audit_events", "readiness_gaps", "readiness_results", "readiness_contexts",
		"sealed_evidence", "evidence_attachments", "evidence_drafts",
		"ingestion_profiles", "subject_entities", "tenants")
	s.Require().NoError(err)

	tenants := tenant.NewPostgresStore(s.postgres.DB)
	now := time.Now()
	t := &tenant.Tenant{
		ID:        id.TenantID(uuid.New()),
		Name:      "Seal Test " + uuid.NewString(),
		Status:    tenant.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(tenants.CreateIfNameAvailable(ctx, t))
	s.tenantID = t.ID
}

func (s *SealedStoreSuite) newStoredDraft() *models.Draft {
	now := time.Now()
	d := &models.Draft{
		ID:              id.DraftID(uuid.New()),
		TenantID:        s.tenantID,
		Scope:           models.ScopeOrganization,
		EvidenceType:    "iso_certificate",
		Justification:   "annual certification upload",
		PurposeTags:     []string{"compliance"},
		RetentionPolicy: models.RetentionSevenYears,
		IngestionMethod: models.IngestionManualDeclaration,
		Status:          models.DraftStatusDrafting,
		CreatedBy:       id.ActorID(uuid.New()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.Require().NoError(s.drafts.Create(context.Background(), d))
	return d
}

func (s *SealedStoreSuite) newSealedRecord(draftID id.DraftID) *models.SealedEvidence {
	now := time.Now()
	return &models.SealedEvidence{
		ID:             id.EvidenceID(uuid.New()),
		DraftID:        draftID,
		TenantID:       s.tenantID,
		LedgerState:    models.LedgerSealed,
		MetadataDigest: canonical.Sum([]byte(draftID.String())),
		SealedAt:       now,
		RetentionEnd:   now.AddDate(7, 0, 0),
		TrustLevel:     models.TrustLow,
		ReviewStatus:   models.ReviewPending,
		EvidenceType:   "iso_certificate",
		Scope:          models.ScopeOrganization,
		SourceRole:     "declarant",
	}
}

// TestConcurrentSealExactlyOneSuccess verifies that racing seals of the same
// draft resolve to exactly one sealed record via the unique index.
func (s *SealedStoreSuite) TestConcurrentSealExactlyOneSuccess() {
	ctx := context.Background()
	draft := s.newStoredDraft()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.sealed.Create(ctx, s.newSealedRecord(draft.ID))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one seal should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict")
}

// TestSealedRoundTrip verifies a sealed record survives storage intact,
// including the nil payload digest of declaration-only evidence.
func (s *SealedStoreSuite) TestSealedRoundTrip() {
	ctx := context.Background()
	draft := s.newStoredDraft()
	record := s.newSealedRecord(draft.ID)

	s.Require().NoError(s.sealed.Create(ctx, record))

	found, err := s.sealed.FindByID(ctx, s.tenantID, record.ID)
	s.Require().NoError(err)
	s.Equal(record.ID, found.ID)
	s.Equal(record.DraftID, found.DraftID)
	s.Equal(models.LedgerSealed, found.LedgerState)
	s.Equal(record.MetadataDigest, found.MetadataDigest)
	s.Nil(found.PayloadDigest)
	s.Equal("declarant", found.SourceRole)
}

// TestCrossTenantSealedInvisible verifies that a foreign tenant id never
// resolves sealed evidence.
func (s *SealedStoreSuite) TestCrossTenantSealedInvisible() {
	ctx := context.Background()
	draft := s.newStoredDraft()
	record := s.newSealedRecord(draft.ID)
	s.Require().NoError(s.sealed.Create(ctx, record))

	_, err := s.sealed.FindByID(ctx, id.TenantID(uuid.New()), record.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
