// Package entity is the tenant-scoped registry of subject entities: the
// legal entities, sites, and product families that evidence targets and
// readiness evaluations assess.
package entity

import (
	"context"
	"time"

	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Kind classifies a subject entity.
type Kind string

const (
	KindLegalEntity   Kind = "legal_entity"
	KindSite          Kind = "site"
	KindProductFamily Kind = "product_family"
)

// ParseKind validates s against the kind enumeration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLegalEntity, KindSite, KindProductFamily:
		return Kind(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown entity kind: "+s)
}

// Entity is one subject entity. Exclusively owned by its tenant.
type Entity struct {
	ID        id.EntityID `json:"id"`
	TenantID  id.TenantID `json:"tenant_id"`
	Kind      Kind        `json:"kind"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
}

// Store persists subject entities. Every query carries the tenant id as a
// mandatory filter; there is no cross-tenant lookup.
type Store interface {
	Create(ctx context.Context, e *Entity) error
	// FindByID returns sentinel.ErrNotFound for absent AND cross-tenant
	// entities, indistinguishably.
	FindByID(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (*Entity, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Entity, error)
}
