package entity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"veritas/internal/audit"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/requestcontext"
)

const maxNameLength = 256

// AuditPublisher records registry changes in the tenant's audit ledger.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service registers and resolves subject entities for one tenant.
type Service struct {
	store   Store
	auditor AuditPublisher
	logger  *slog.Logger
}

func NewService(store Store, auditor AuditPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, auditor: auditor, logger: logger}
}

// Register creates a subject entity under the caller's tenant.
func (s *Service) Register(ctx context.Context, tenantID id.TenantID, kind, name string) (*Entity, error) {
	parsedKind, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, dErrors.New(dErrors.CodeValidation, "entity name must be non-empty and at most 256 characters")
	}

	e := &Entity{
		ID:        id.EntityID(uuid.New()),
		TenantID:  tenantID,
		Kind:      parsedKind,
		Name:      name,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create entity")
	}

	if s.auditor != nil {
		detail, _ := json.Marshal(map[string]string{"entity_id": e.ID.String(), "kind": string(e.Kind)})
		if err := s.auditor.Emit(ctx, audit.Event{
			TenantID: tenantID,
			Type:     audit.EventEntityRegistered,
			Detail:   detail,
		}); err != nil {
			s.logger.ErrorContext(ctx, "audit emit failed", "event", audit.EventEntityRegistered, "error", err)
		}
	}
	return e, nil
}

// Get resolves one entity. Absent and cross-tenant ids are indistinguishable.
func (s *Service) Get(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (*Entity, error) {
	e, err := s.store.FindByID(ctx, tenantID, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "subject entity not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find entity")
	}
	return e, nil
}

// List returns the tenant's entities ordered by creation time.
func (s *Service) List(ctx context.Context, tenantID id.TenantID) ([]Entity, error) {
	entities, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list entities")
	}
	return entities, nil
}
