package readiness

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"veritas/internal/canonical"
	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
)

func testContext() Context {
	return Context{
		ID:              id.ContextID(uuid.New()),
		TenantID:        id.TenantID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
		SubjectEntityID: id.EntityID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
		Framework:       "csrd_2025",
		IntendedUse:     "regulatory_filing",
		ExecutionMode:   ModeProduction,
	}
}

func testRule(position int, mutate func(*Rule)) Rule {
	r := Rule{
		ID:                     id.RuleID(uuid.New()),
		Framework:              "csrd_2025",
		IntendedUse:            IntendedUseAll,
		RequiredEvidenceTypes:  []string{"iso14001_certificate"},
		RequiredAuthorityTypes: []string{"declarant"},
		Mandatory:              true,
		GapClass:               GapBlocking,
		Remediation:            "Obtain an ISO 14001 certificate for the site",
		LegalReferences:        []string{"CSRD Art. 29b"},
		Active:                 true,
		Position:               position,
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func testEvidence(evidenceType, sourceRole string, payload string) models.SealedEvidence {
	e := models.SealedEvidence{
		ID:             id.EvidenceID(uuid.New()),
		TenantID:       id.TenantID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
		LedgerState:    models.LedgerSealed,
		MetadataDigest: canonical.Sum([]byte(evidenceType + "|" + sourceRole + "|" + payload)),
		EvidenceType:   evidenceType,
		SourceRole:     sourceRole,
	}
	if payload != "" {
		e.Payload = json.RawMessage(payload)
	}
	return e
}

func TestEvaluateZeroRulesIsReady(t *testing.T) {
	out, err := Evaluate(testContext(), nil, nil)
	require.NoError(t, err)

	require.Equal(t, StatusReady, out.Status)
	require.Empty(t, out.Gaps)
	require.Zero(t, out.RulesPassed)
	require.Zero(t, out.RulesFailed)
	// READY with no rules still carries a verifiable digest.
	require.False(t, out.Digest.IsZero())
}

func TestEvaluatePassAndGap(t *testing.T) {
	rules := []Rule{
		testRule(1, nil),
		testRule(2, func(r *Rule) {
			r.RequiredEvidenceTypes = []string{"energy_audit"}
			r.GapClass = GapLimiting
			r.Remediation = "Commission an energy audit"
		}),
	}
	sealed := []models.SealedEvidence{
		testEvidence("iso14001_certificate", "declarant", ""),
	}

	out, err := Evaluate(testContext(), rules, sealed)
	require.NoError(t, err)

	require.Equal(t, 1, out.RulesPassed)
	require.Equal(t, 1, out.RulesFailed)
	require.Len(t, out.Outcomes, 2)
	require.Equal(t, OutcomePass, out.Outcomes[0].Outcome)
	require.Equal(t, OutcomeGap, out.Outcomes[1].Outcome)
	require.Len(t, out.Gaps, 1)
	require.Equal(t, rules[1].ID, out.Gaps[0].RuleID)
	require.Equal(t, "Commission an energy audit", out.Gaps[0].Remediation)
	require.Equal(t, StatusProvisional, out.Status)
}

func TestEvaluateStatusDerivation(t *testing.T) {
	t.Run("any blocking gap wins over limiting", func(t *testing.T) {
		rules := []Rule{
			testRule(1, func(r *Rule) { r.GapClass = GapLimiting }),
			testRule(2, func(r *Rule) { r.GapClass = GapBlocking }),
		}
		out, err := Evaluate(testContext(), rules, nil)
		require.NoError(t, err)
		require.Equal(t, StatusBlocked, out.Status)
	})

	t.Run("non-mandatory gap leaves status untouched", func(t *testing.T) {
		rules := []Rule{
			testRule(1, func(r *Rule) { r.Mandatory = false }),
		}
		out, err := Evaluate(testContext(), rules, nil)
		require.NoError(t, err)
		require.Equal(t, 1, out.RulesFailed)
		require.Empty(t, out.Gaps)
		require.Equal(t, StatusReady, out.Status)
	})
}

func TestEvaluateAuthorityMatch(t *testing.T) {
	rules := []Rule{
		testRule(1, func(r *Rule) {
			r.RequiredAuthorityTypes = []string{"accredited_auditor"}
		}),
	}
	// Right type, wrong authority: no match, GAP.
	sealed := []models.SealedEvidence{
		testEvidence("iso14001_certificate", "declarant", ""),
	}

	out, err := Evaluate(testContext(), rules, sealed)
	require.NoError(t, err)
	require.Equal(t, OutcomeGap, out.Outcomes[0].Outcome)
}

func TestEvaluateFieldPaths(t *testing.T) {
	rules := []Rule{
		testRule(1, func(r *Rule) {
			r.RequiredFieldPaths = []string{"certificate.expiry", "certificate.issuer.name"}
		}),
	}

	t.Run("all paths defined passes", func(t *testing.T) {
		sealed := []models.SealedEvidence{
			testEvidence("iso14001_certificate", "declarant",
				`{"certificate":{"expiry":"2027-03-01","issuer":{"name":"TUV"}}}`),
		}
		out, err := Evaluate(testContext(), rules, sealed)
		require.NoError(t, err)
		require.Equal(t, OutcomePass, out.Outcomes[0].Outcome)
	})

	t.Run("missing path gaps", func(t *testing.T) {
		sealed := []models.SealedEvidence{
			testEvidence("iso14001_certificate", "declarant",
				`{"certificate":{"expiry":"2027-03-01"}}`),
		}
		out, err := Evaluate(testContext(), rules, sealed)
		require.NoError(t, err)
		require.Equal(t, OutcomeGap, out.Outcomes[0].Outcome)
	})

	t.Run("null value is not defined", func(t *testing.T) {
		sealed := []models.SealedEvidence{
			testEvidence("iso14001_certificate", "declarant",
				`{"certificate":{"expiry":null,"issuer":{"name":"TUV"}}}`),
		}
		out, err := Evaluate(testContext(), rules, sealed)
		require.NoError(t, err)
		require.Equal(t, OutcomeGap, out.Outcomes[0].Outcome)
	})

	t.Run("paths satisfied across the matched set", func(t *testing.T) {
		sealed := []models.SealedEvidence{
			testEvidence("iso14001_certificate", "declarant",
				`{"certificate":{"expiry":"2027-03-01"}}`),
			testEvidence("iso14001_certificate", "declarant",
				`{"certificate":{"issuer":{"name":"TUV"}}}`),
		}
		out, err := Evaluate(testContext(), rules, sealed)
		require.NoError(t, err)
		require.Equal(t, OutcomePass, out.Outcomes[0].Outcome)
	})

	t.Run("field presence never rescues a type mismatch", func(t *testing.T) {
		sealed := []models.SealedEvidence{
			testEvidence("energy_audit", "declarant",
				`{"certificate":{"expiry":"2027-03-01","issuer":{"name":"TUV"}}}`),
		}
		out, err := Evaluate(testContext(), rules, sealed)
		require.NoError(t, err)
		require.Equal(t, OutcomeGap, out.Outcomes[0].Outcome)
	})
}

func TestEvaluateIntendedUseFilter(t *testing.T) {
	rules := []Rule{
		testRule(1, func(r *Rule) { r.IntendedUse = "internal_review" }),
		testRule(2, func(r *Rule) { r.IntendedUse = "regulatory_filing" }),
		testRule(3, nil), // ALL
		testRule(4, func(r *Rule) { r.Active = false }),
	}

	out, err := Evaluate(testContext(), rules, nil)
	require.NoError(t, err)
	// Only the exact match and the ALL rule apply.
	require.Len(t, out.Outcomes, 2)
	require.Equal(t, rules[1].ID, out.Outcomes[0].RuleID)
	require.Equal(t, rules[2].ID, out.Outcomes[1].RuleID)
}

func TestEvaluateDigestDeterminism(t *testing.T) {
	rules := []Rule{
		testRule(1, nil),
		testRule(2, func(r *Rule) { r.RequiredEvidenceTypes = []string{"energy_audit"} }),
	}
	e1 := testEvidence("iso14001_certificate", "declarant", `{"a":1}`)
	e2 := testEvidence("energy_audit", "declarant", `{"b":2}`)

	evalCtx := testContext()

	first, err := Evaluate(evalCtx, rules, []models.SealedEvidence{e1, e2})
	require.NoError(t, err)

	// A fresh context id for the same coordinates must not change the digest.
	rerunCtx := evalCtx
	rerunCtx.ID = id.ContextID(uuid.New())
	second, err := Evaluate(rerunCtx, rules, []models.SealedEvidence{e2, e1})
	require.NoError(t, err)
	require.Equal(t, first.Digest, second.Digest)

	// A different evidence set must change it.
	third, err := Evaluate(evalCtx, rules, []models.SealedEvidence{e1})
	require.NoError(t, err)
	require.NotEqual(t, first.Digest, third.Digest)

	// So must a different execution mode.
	hostileCtx := evalCtx
	hostileCtx.ExecutionMode = ModeHostile
	fourth, err := Evaluate(hostileCtx, rules, []models.SealedEvidence{e1, e2})
	require.NoError(t, err)
	require.NotEqual(t, first.Digest, fourth.Digest)
}

func TestParseExecutionModeHasNoDefault(t *testing.T) {
	for _, valid := range []string{"production", "test", "hostile"} {
		mode, err := ParseExecutionMode(valid)
		require.NoError(t, err)
		require.Equal(t, ExecutionMode(valid), mode)
	}

	_, err := ParseExecutionMode("")
	require.Error(t, err)

	_, err = ParseExecutionMode("staging")
	require.Error(t, err)
}
