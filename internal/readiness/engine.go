package readiness

import (
	"sort"

	"veritas/internal/canonical"
	"veritas/internal/evidence/models"
	dErrors "veritas/pkg/domain-errors"
)

// Evaluation is the pure output of one engine run. Identifiers for the
// persisted records are assigned by the caller; the engine itself touches
// no clock, no randomness, and no store.
type Evaluation struct {
	Status      Status
	RulesPassed int
	RulesFailed int
	Outcomes    []RuleOutcome
	Gaps        []Gap
	Digest      canonical.Digest
}

// digestInput is the canonicalization input for the evaluation digest.
// The context is represented by its declared coordinates rather than its
// record id so that re-running the same inputs reproduces an identical
// digest, which is what lets a third party verify a result.
type digestInput struct {
	TenantID        string        `json:"tenant_id"`
	SubjectEntityID string        `json:"subject_entity_id"`
	Framework       string        `json:"framework"`
	IntendedUse     string        `json:"intended_use"`
	ExecutionMode   string        `json:"execution_mode"`
	Outcomes        []RuleOutcome `json:"outcomes"`
	EvidenceDigests []string      `json:"evidence_digests"`
}

// Evaluate runs every applicable rule against the sealed evidence set and
// derives the readiness verdict. Rules never short-circuit: each produces
// exactly one PASS or GAP outcome, in rule table order. Zero applicable
// rules is READY with zero gaps, explicitly.
func Evaluate(evalCtx Context, rules []Rule, sealed []models.SealedEvidence) (*Evaluation, error) {
	applicable := applicableRules(rules, evalCtx.IntendedUse)

	parsed, err := parsePayloads(sealed)
	if err != nil {
		return nil, err
	}

	out := &Evaluation{}
	for _, rule := range applicable {
		outcome := evaluateRule(rule, sealed, parsed)
		out.Outcomes = append(out.Outcomes, RuleOutcome{RuleID: rule.ID, Outcome: outcome})

		if outcome == OutcomePass {
			out.RulesPassed++
			continue
		}
		out.RulesFailed++
		if rule.Mandatory {
			out.Gaps = append(out.Gaps, Gap{
				TenantID:        evalCtx.TenantID,
				RuleID:          rule.ID,
				Class:           rule.GapClass,
				Remediation:     rule.Remediation,
				LegalReferences: rule.LegalReferences,
			})
		}
	}

	out.Status = deriveStatus(out.Gaps)

	digest, err := canonical.SumCanonical(digestInput{
		TenantID:        evalCtx.TenantID.String(),
		SubjectEntityID: evalCtx.SubjectEntityID.String(),
		Framework:       evalCtx.Framework,
		IntendedUse:     evalCtx.IntendedUse,
		ExecutionMode:   string(evalCtx.ExecutionMode),
		Outcomes:        out.Outcomes,
		EvidenceDigests: sortedEvidenceDigests(sealed),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute evaluation digest")
	}
	out.Digest = digest
	return out, nil
}

// applicableRules filters by intended use and fixes the outcome order:
// rule table position, then id as the tie-breaker.
func applicableRules(rules []Rule, intendedUse string) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Active && r.AppliesTo(intendedUse) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// evaluateRule checks the evidence match first; field presence is only
// judged once evidence-type and authority match have succeeded, so a rule
// with no matching evidence never partially passes.
func evaluateRule(rule Rule, sealed []models.SealedEvidence, parsed []canonical.Value) Outcome {
	var matched []canonical.Value
	for i, e := range sealed {
		if contains(rule.RequiredEvidenceTypes, e.EvidenceType) && contains(rule.RequiredAuthorityTypes, e.SourceRole) {
			matched = append(matched, parsed[i])
		}
	}
	if len(matched) == 0 {
		return OutcomeGap
	}

	for _, path := range rule.RequiredFieldPaths {
		if !anyDefined(matched, path) {
			return OutcomeGap
		}
	}
	return OutcomePass
}

func deriveStatus(gaps []Gap) Status {
	status := StatusReady
	for _, g := range gaps {
		if g.Class == GapBlocking {
			return StatusBlocked
		}
		status = StatusProvisional
	}
	return status
}

func parsePayloads(sealed []models.SealedEvidence) ([]canonical.Value, error) {
	parsed := make([]canonical.Value, len(sealed))
	for i, e := range sealed {
		if len(e.Payload) == 0 {
			continue
		}
		v, err := canonical.ParseValue(e.Payload)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sealed evidence payload is not valid json")
		}
		parsed[i] = v
	}
	return parsed, nil
}

func sortedEvidenceDigests(sealed []models.SealedEvidence) []string {
	digests := make([]string, 0, len(sealed))
	for _, e := range sealed {
		digests = append(digests, e.MetadataDigest.String())
	}
	sort.Strings(digests)
	return digests
}

func anyDefined(values []canonical.Value, path string) bool {
	for _, v := range values {
		if resolved, ok := v.ResolvePath(path); ok && resolved.IsDefined() {
			return true
		}
	}
	return false
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
