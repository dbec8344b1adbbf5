// Package admin is the operator surface: tenant lifecycle, subject entity
// registry, ingestion profiles, and the rule catalog. Every endpoint is
// gated by the admin token and names the tenant explicitly instead of
// reading it from the caller's identity.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"veritas/internal/entity"
	evidencemodels "veritas/internal/evidence/models"
	"veritas/internal/readiness"
	readinesshandler "veritas/internal/readiness/handler"
	"veritas/internal/tenant"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// TenantService covers the tenant lifecycle operations the handler needs.
type TenantService interface {
	Create(ctx context.Context, name string) (*tenant.Tenant, error)
	Get(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error)
	Deactivate(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error)
	Reactivate(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error)
}

// EntityService covers the subject entity registry.
type EntityService interface {
	Register(ctx context.Context, tenantID id.TenantID, kind, name string) (*entity.Entity, error)
	Get(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (*entity.Entity, error)
	List(ctx context.Context, tenantID id.TenantID) ([]entity.Entity, error)
}

// ProfileService covers ingestion profile management.
type ProfileService interface {
	CreateProfile(ctx context.Context, tenantID id.TenantID, name, sourceRole string) (*evidencemodels.Profile, error)
	SetProfileActive(ctx context.Context, tenantID id.TenantID, profileID id.ProfileID, active bool) (*evidencemodels.Profile, error)
	ListProfiles(ctx context.Context, tenantID id.TenantID) ([]evidencemodels.Profile, error)
}

// RuleService covers the shared rule catalog.
type RuleService interface {
	CreateRule(ctx context.Context, r *readiness.Rule) (*readiness.Rule, error)
	ListRules(ctx context.Context, framework string) ([]readiness.Rule, error)
	SetRuleActive(ctx context.Context, ruleID id.RuleID, active bool) (*readiness.Rule, error)
}

// Handler wires the operator endpoints to the domain services.
type Handler struct {
	tenants  TenantService
	entities EntityService
	profiles ProfileService
	rules    RuleService
	logger   *slog.Logger
}

func New(tenants TenantService, entities EntityService, profiles ProfileService, rules RuleService, logger *slog.Logger) *Handler {
	return &Handler{
		tenants:  tenants,
		entities: entities,
		profiles: profiles,
		rules:    rules,
		logger:   logger,
	}
}

// Register mounts the admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tenants", h.HandleCreateTenant)
	r.Get("/tenants/{tenantID}", h.HandleGetTenant)
	r.Post("/tenants/{tenantID}/deactivate", h.HandleDeactivateTenant)
	r.Post("/tenants/{tenantID}/reactivate", h.HandleReactivateTenant)

	r.Post("/tenants/{tenantID}/entities", h.HandleRegisterEntity)
	r.Get("/tenants/{tenantID}/entities", h.HandleListEntities)
	r.Get("/tenants/{tenantID}/entities/{entityID}", h.HandleGetEntity)

	r.Post("/tenants/{tenantID}/profiles", h.HandleCreateProfile)
	r.Get("/tenants/{tenantID}/profiles", h.HandleListProfiles)
	r.Post("/tenants/{tenantID}/profiles/{profileID}/active", h.HandleSetProfileActive)

	r.Post("/rules", h.HandleCreateRule)
	r.Get("/rules", h.HandleListRules)
	r.Post("/rules/{ruleID}/active", h.HandleSetRuleActive)
}

// HandleCreateTenant handles POST /tenants requests.
func (h *Handler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	t, err := h.tenants.Create(ctx, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "tenant created",
		"request_id", requestID,
		"tenant_id", t.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromTenant(t))
}

// HandleGetTenant handles GET /tenants/{tenantID} requests.
func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	t, err := h.tenants.Get(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTenant(t))
}

// HandleDeactivateTenant handles POST /tenants/{tenantID}/deactivate requests.
func (h *Handler) HandleDeactivateTenant(w http.ResponseWriter, r *http.Request) {
	h.transitionTenant(w, r, h.tenants.Deactivate, "tenant deactivated")
}

// HandleReactivateTenant handles POST /tenants/{tenantID}/reactivate requests.
func (h *Handler) HandleReactivateTenant(w http.ResponseWriter, r *http.Request) {
	h.transitionTenant(w, r, h.tenants.Reactivate, "tenant reactivated")
}

func (h *Handler) transitionTenant(
	w http.ResponseWriter,
	r *http.Request,
	transition func(context.Context, id.TenantID) (*tenant.Tenant, error),
	message string,
) {
	ctx := r.Context()
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	t, err := transition(ctx, tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, message,
		"request_id", requestcontext.RequestID(ctx),
		"tenant_id", t.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, FromTenant(t))
}

// HandleRegisterEntity handles POST /tenants/{tenantID}/entities requests.
func (h *Handler) HandleRegisterEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EntityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	e, err := h.entities.Register(ctx, tenantID, req.Kind, req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "subject entity registered",
		"request_id", requestID,
		"tenant_id", tenantID,
		"entity_id", e.ID,
		"kind", e.Kind,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromEntity(e))
}

// HandleListEntities handles GET /tenants/{tenantID}/entities requests.
func (h *Handler) HandleListEntities(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	entities, err := h.entities.List(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := make([]*EntityResponse, 0, len(entities))
	for i := range entities {
		resp = append(resp, FromEntity(&entities[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entities": resp})
}

// HandleGetEntity handles GET /tenants/{tenantID}/entities/{entityID} requests.
func (h *Handler) HandleGetEntity(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	entityID, err := id.ParseEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "subject entity not found"))
		return
	}
	e, err := h.entities.Get(r.Context(), tenantID, entityID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEntity(e))
}

// HandleCreateProfile handles POST /tenants/{tenantID}/profiles requests.
func (h *Handler) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.profiles.CreateProfile(ctx, tenantID, req.Name, req.SourceRole)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "ingestion profile created",
		"request_id", requestID,
		"tenant_id", tenantID,
		"profile_id", p.ID,
		"source_role", p.SourceRole,
	)
	httputil.WriteJSON(w, http.StatusCreated, p)
}

// HandleListProfiles handles GET /tenants/{tenantID}/profiles requests.
func (h *Handler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	profiles, err := h.profiles.ListProfiles(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// HandleSetProfileActive handles POST /tenants/{tenantID}/profiles/{profileID}/active
// requests. The active flag travels as a query parameter so the endpoint
// stays body-less.
func (h *Handler) HandleSetProfileActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenantParam(w, r)
	if !ok {
		return
	}
	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "ingestion profile not found"))
		return
	}
	active, err := strconv.ParseBool(r.URL.Query().Get("value"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "value must be true or false"))
		return
	}

	p, err := h.profiles.SetProfileActive(ctx, tenantID, profileID, active)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "ingestion profile toggled",
		"request_id", requestcontext.RequestID(ctx),
		"tenant_id", tenantID,
		"profile_id", p.ID,
		"active", p.Active,
	)
	httputil.WriteJSON(w, http.StatusOK, p)
}

// HandleCreateRule handles POST /rules requests.
func (h *Handler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[readinesshandler.RuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rule, err := h.rules.CreateRule(ctx, req.ToRule())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "readiness rule created",
		"request_id", requestID,
		"rule_id", rule.ID,
		"framework", rule.Framework,
	)
	httputil.WriteJSON(w, http.StatusCreated, readinesshandler.FromRule(rule))
}

// HandleListRules handles GET /rules requests. The framework query
// parameter is mandatory; the catalog is only ever read one framework
// at a time.
func (h *Handler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	framework := r.URL.Query().Get("framework")
	if framework == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "framework query parameter is required"))
		return
	}

	rules, err := h.rules.ListRules(r.Context(), framework)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := make([]*readinesshandler.RuleResponse, 0, len(rules))
	for i := range rules {
		resp = append(resp, readinesshandler.FromRule(&rules[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"rules": resp})
}

// HandleSetRuleActive handles POST /rules/{ruleID}/active requests.
func (h *Handler) HandleSetRuleActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "rule not found"))
		return
	}
	active, err := strconv.ParseBool(r.URL.Query().Get("value"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "value must be true or false"))
		return
	}

	rule, err := h.rules.SetRuleActive(ctx, ruleID, active)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "readiness rule toggled",
		"request_id", requestcontext.RequestID(ctx),
		"rule_id", rule.ID,
		"active", rule.Active,
	)
	httputil.WriteJSON(w, http.StatusOK, readinesshandler.FromRule(rule))
}

func (h *Handler) tenantParam(w http.ResponseWriter, r *http.Request) (id.TenantID, bool) {
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "tenant not found"))
		return id.TenantID{}, false
	}
	return tenantID, true
}
