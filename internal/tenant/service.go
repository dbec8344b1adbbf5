package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"veritas/internal/audit"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/requestcontext"
)

// Store persists tenants. CreateIfNameAvailable enforces case-insensitive
// name uniqueness atomically; Execute holds the store's lock (mutex or
// FOR UPDATE) across validation and mutation.
type Store interface {
	CreateIfNameAvailable(ctx context.Context, t *Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*Tenant, error)
	FindByName(ctx context.Context, name string) (*Tenant, error)
	Execute(ctx context.Context, tenantID id.TenantID, validate func(*Tenant) error, mutate func(*Tenant)) (*Tenant, error)
	Count(ctx context.Context) (int, error)
}

// AuditPublisher records tenant lifecycle transitions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type serviceMetrics struct {
	created     prometheus.Counter
	deactivated prometheus.Counter
}

func newServiceMetrics() *serviceMetrics {
	return &serviceMetrics{
		created: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_tenants_created_total",
			Help: "Total number of tenants created.",
		}),
		deactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_tenants_deactivated_total",
			Help: "Total number of tenant deactivations.",
		}),
	}
}

// Service orchestrates the tenant lifecycle.
type Service struct {
	tenants Store
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *serviceMetrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithMetrics() Option {
	return func(s *Service) { s.metrics = newServiceMetrics() }
}

func NewService(tenants Store, opts ...Option) *Service {
	s := &Service{tenants: tenants, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, name string) (*Tenant, error) {
	name = strings.TrimSpace(name)

	t, err := New(id.TenantID(uuid.New()), name, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.tenants.CreateIfNameAvailable(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) || dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "tenant name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
	}

	s.emit(ctx, audit.EventTenantCreated, t)
	if s.metrics != nil {
		s.metrics.created.Inc()
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, tenantID id.TenantID) (*Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return t, nil
}

// RequireActive loads the tenant and rejects inactive ones. Handlers for
// tenant-scoped resources call this before touching any tenant data.
func (s *Service) RequireActive(ctx context.Context, tenantID id.TenantID) error {
	t, err := s.Get(ctx, tenantID)
	if err != nil {
		return err
	}
	if !t.IsActive() {
		return dErrors.New(dErrors.CodeForbidden, "tenant is deactivated")
	}
	return nil
}

// Deactivate transitions a tenant to inactive status. The store's Execute
// method holds the lock during both validation and mutation.
func (s *Service) Deactivate(ctx context.Context, tenantID id.TenantID) (*Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}

	now := requestcontext.Now(ctx)
	t, err := s.tenants.Execute(ctx, tenantID,
		func(t *Tenant) error {
			if err := t.CanDeactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "tenant is already inactive")
			}
			return nil
		},
		func(t *Tenant) { t.ApplyDeactivation(now) },
	)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	s.emit(ctx, audit.EventTenantDeactivated, t)
	if s.metrics != nil {
		s.metrics.deactivated.Inc()
	}
	return t, nil
}

// Reactivate transitions a tenant back to active status.
func (s *Service) Reactivate(ctx context.Context, tenantID id.TenantID) (*Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}

	now := requestcontext.Now(ctx)
	t, err := s.tenants.Execute(ctx, tenantID,
		func(t *Tenant) error {
			if err := t.CanReactivate(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "tenant is already active")
			}
			return nil
		},
		func(t *Tenant) { t.ApplyReactivation(now) },
	)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	s.emit(ctx, audit.EventTenantReactivated, t)
	return t, nil
}

func (s *Service) emit(ctx context.Context, eventType audit.EventType, t *Tenant) {
	if s.auditor == nil {
		return
	}
	detail, _ := json.Marshal(map[string]string{"name": t.Name, "status": string(t.Status)})
	if err := s.auditor.Emit(ctx, audit.Event{
		TenantID: t.ID,
		Type:     eventType,
		Detail:   detail,
	}); err != nil {
		s.logger.ErrorContext(ctx, "tenant audit emit failed",
			slog.String("event", string(eventType)),
			slog.String("tenant_id", t.ID.String()),
			slog.Any("error", err))
	}
}

func wrapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	if _, ok := dErrors.Load(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "tenant store failure")
}
