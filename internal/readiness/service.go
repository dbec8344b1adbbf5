package readiness

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"veritas/internal/audit"
	"veritas/internal/command"
	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
	pstrings "veritas/pkg/platform/strings"
	"veritas/pkg/platform/tx"
	"veritas/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mocks.go -package=mocks

// EntityResolver resolves subject entities within a tenant. Cross-tenant
// subjects resolve exactly like missing ones.
type EntityResolver interface {
	Exists(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (bool, error)
}

// EvidenceSource supplies the tenant's sealed evidence records.
type EvidenceSource interface {
	ListByTenant(ctx context.Context, tenantID id.TenantID, state models.LedgerState) ([]models.SealedEvidence, error)
}

// ProfileSource supplies the tenant's ingestion profiles.
type ProfileSource interface {
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]models.Profile, error)
}

// RuleStore reads and maintains the global rule table. Reads never filter
// by tenant: the table is shared.
type RuleStore interface {
	Create(ctx context.Context, r *Rule) error
	ListByFramework(ctx context.Context, framework string) ([]Rule, error)
	SetActive(ctx context.Context, ruleID id.RuleID, active bool) (*Rule, error)
}

// ResultStore persists evaluation contexts, results, and gaps as immutable
// records. CreateContext is conditional on (tenant, command): the database
// unique constraint is the cross-instance idempotency backstop when the
// command ledger entry has expired.
type ResultStore interface {
	CreateContext(ctx context.Context, c *Context) error
	CreateResult(ctx context.Context, r *Result) error
	FindResultByID(ctx context.Context, tenantID id.TenantID, resultID id.ResultID) (*Result, error)
}

// AuditPublisher records evaluation events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
	Stream(ctx context.Context, event audit.Event)
}

// EvaluateInput carries the validated parameters of one evaluation call.
type EvaluateInput struct {
	SubjectEntityID id.EntityID
	Framework       string
	IntendedUse     string
	CommandID       string
	ExecutionMode   ExecutionMode
}

// Service orchestrates readiness evaluation.
type Service struct {
	entities EntityResolver
	evidence EvidenceSource
	profiles ProfileSource
	rules    RuleStore
	results  ResultStore
	auditor  AuditPublisher
	commands *command.Executor
	runner   tx.Runner
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// ServiceDeps carries the collaborators for NewService.
type ServiceDeps struct {
	Entities EntityResolver
	Evidence EvidenceSource
	Profiles ProfileSource
	Rules    RuleStore
	Results  ResultStore
	Auditor  AuditPublisher
	Commands *command.Executor
	Runner   tx.Runner
	Logger   *slog.Logger
	Metrics  *Metrics
}

func NewService(deps ServiceDeps) *Service {
	if deps.Runner == nil {
		deps.Runner = &tx.NoopRunner{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		entities: deps.Entities,
		evidence: deps.Evidence,
		profiles: deps.Profiles,
		rules:    deps.Rules,
		results:  deps.Results,
		auditor:  deps.Auditor,
		commands: deps.Commands,
		runner:   deps.Runner,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		tracer:   otel.Tracer("veritas/readiness"),
	}
}

// Evaluate runs one readiness evaluation. Replays with the same command id
// return the original result untouched.
func (s *Service) Evaluate(ctx context.Context, in EvaluateInput) (*Result, bool, error) {
	return command.Run(ctx, s.commands, requestcontext.TenantID(ctx), in.CommandID,
		func(ctx context.Context) (*Result, error) {
			return s.evaluateOnce(ctx, in)
		})
}

func (s *Service) evaluateOnce(ctx context.Context, in EvaluateInput) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "readiness.evaluate",
		trace.WithAttributes(
			attribute.String("framework", in.Framework),
			attribute.String("execution_mode", string(in.ExecutionMode)),
		))
	defer span.End()

	start := time.Now()
	tenantID := requestcontext.TenantID(ctx)

	found, err := s.entities.Exists(ctx, tenantID, in.SubjectEntityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve subject entity")
	}
	if !found {
		return nil, dErrors.New(dErrors.CodeNotFound, "subject entity not found")
	}

	now := requestcontext.Now(ctx).UTC()
	evalCtx := Context{
		ID:              id.ContextID(uuid.New()),
		TenantID:        tenantID,
		SubjectEntityID: in.SubjectEntityID,
		Framework:       in.Framework,
		IntendedUse:     in.IntendedUse,
		ExecutionMode:   in.ExecutionMode,
		CommandID:       in.CommandID,
		CreatedAt:       now,
	}

	// Rules, evidence, and profiles load concurrently; nothing here mutates.
	var (
		rules    []Rule
		sealed   []models.SealedEvidence
		profiles []models.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rules, err = s.rules.ListByFramework(gctx, in.Framework)
		return err
	})
	g.Go(func() error {
		var err error
		sealed, err = s.evidence.ListByTenant(gctx, tenantID, models.LedgerSealed)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.profiles.ListByTenant(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load evaluation inputs")
	}

	eligible := eligibleEvidence(sealed, profiles, in.SubjectEntityID)

	evaluation, err := Evaluate(evalCtx, rules, eligible)
	if err != nil {
		return nil, err
	}

	resultID := id.ResultID(uuid.New())
	result := &Result{
		ID:          resultID,
		ContextID:   evalCtx.ID,
		TenantID:    tenantID,
		Status:      evaluation.Status,
		RulesPassed: evaluation.RulesPassed,
		RulesFailed: evaluation.RulesFailed,
		Digest:      evaluation.Digest,
		Outcomes:    evaluation.Outcomes,
		Gaps:        materializeGaps(evaluation.Gaps, resultID),
		EvaluatedAt: now,
	}

	event := audit.Event{
		TenantID: tenantID,
		Type:     audit.EventReadinessEvaluated,
		Detail: mustDetail(map[string]string{
			"result_id":  result.ID.String(),
			"context_id": evalCtx.ID.String(),
			"framework":  in.Framework,
			"status":     string(result.Status),
			"digest":     result.Digest.String(),
		}),
	}

	err = s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.results.CreateContext(txCtx, &evalCtx); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "evaluation already recorded for this command")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist evaluation context")
		}
		if err := s.results.CreateResult(txCtx, result); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist evaluation result")
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
		s.metrics.Evaluations.WithLabelValues(string(result.Status)).Inc()
		s.metrics.EvaluationSeconds.Observe(time.Since(start).Seconds())
	}
	s.logger.InfoContext(ctx, "readiness evaluated",
		slog.String("result_id", result.ID.String()),
		slog.String("status", string(result.Status)),
		slog.Int("rules_passed", result.RulesPassed),
		slog.Int("rules_failed", result.RulesFailed),
	)
	return result, nil
}

// GetResult returns an immutable evaluation result owned by the calling
// tenant.
func (s *Service) GetResult(ctx context.Context, resultID id.ResultID) (*Result, error) {
	r, err := s.results.FindResultByID(ctx, requestcontext.TenantID(ctx), resultID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "result not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "result store failure")
	}
	return r, nil
}

// CreateRule registers a global rule. Catalog vocabulary (evidence and
// authority types) is lowercased so rule matching is insensitive to how the
// operator typed it; field paths and legal references keep their case.
func (s *Service) CreateRule(ctx context.Context, r *Rule) (*Rule, error) {
	r.RequiredEvidenceTypes = pstrings.DedupeAndTrimLower(r.RequiredEvidenceTypes)
	r.RequiredAuthorityTypes = pstrings.DedupeAndTrimLower(r.RequiredAuthorityTypes)
	r.RequiredFieldPaths = pstrings.DedupeAndTrim(r.RequiredFieldPaths)
	r.LegalReferences = pstrings.DedupeAndTrim(r.LegalReferences)
	if r.Framework == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "framework is required")
	}
	if len(r.RequiredEvidenceTypes) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one required evidence type is needed")
	}
	if len(r.RequiredAuthorityTypes) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one required authority type is needed")
	}
	if r.GapClass != GapBlocking && r.GapClass != GapLimiting {
		return nil, dErrors.New(dErrors.CodeValidation, "gap_class must be blocking or limiting")
	}
	if r.IntendedUse == "" {
		r.IntendedUse = IntendedUseAll
	}
	r.ID = id.RuleID(uuid.New())
	r.Active = true
	r.CreatedAt = requestcontext.Now(ctx).UTC()
	if err := s.rules.Create(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create rule")
	}
	return r, nil
}

// ListRules returns the rule table for a framework, active and inactive.
func (s *Service) ListRules(ctx context.Context, framework string) ([]Rule, error) {
	return s.rules.ListByFramework(ctx, framework)
}

// SetRuleActive toggles a rule in or out of evaluation.
func (s *Service) SetRuleActive(ctx context.Context, ruleID id.RuleID, active bool) (*Rule, error) {
	r, err := s.rules.SetActive(ctx, ruleID, active)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "rule not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "rule store failure")
	}
	return r, nil
}

// eligibleEvidence keeps sealed evidence that concerns the subject: targeted
// at it directly, or organization-wide. Evidence ingested under a profile
// participates only while that profile is active; declarant evidence (no
// profile) always participates.
func eligibleEvidence(sealed []models.SealedEvidence, profiles []models.Profile, subject id.EntityID) []models.SealedEvidence {
	active := make(map[id.ProfileID]bool, len(profiles))
	for _, p := range profiles {
		active[p.ID] = p.Active
	}

	var out []models.SealedEvidence
	for _, e := range sealed {
		if e.ProfileID != nil && !active[*e.ProfileID] {
			continue
		}
		if e.Scope == models.ScopeOrganization {
			out = append(out, e)
			continue
		}
		if e.TargetEntityID != nil && *e.TargetEntityID == subject {
			out = append(out, e)
		}
	}
	return out
}

func materializeGaps(gaps []Gap, resultID id.ResultID) []Gap {
	out := make([]Gap, len(gaps))
	for i, g := range gaps {
		g.ID = id.GapID(uuid.New())
		g.ResultID = resultID
		out[i] = g
	}
	return out
}

func mustDetail(detail map[string]string) json.RawMessage {
	raw, _ := json.Marshal(detail)
	return raw
}
