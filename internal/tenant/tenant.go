// Package tenant manages tenant organizations: the exclusive owners of every
// evidence record, readiness context, and audit event in the system.
package tenant

import (
	"time"

	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Status is the lifecycle state of a tenant.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) CanTransitionTo(target Status) bool {
	return s != target && (target == StatusActive || target == StatusInactive)
}

// Tenant is the aggregate root for a tenant organization.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Status is either active or inactive
//   - CreatedAt is immutable after construction
//
// Deactivating a tenant is an immediate boundary enforcement: every
// authenticated request for an inactive tenant is rejected at the service
// layer, without cascading status changes to the tenant's records. Sealed
// evidence and audit history remain intact for reactivation.
type Tenant struct {
	ID        id.TenantID `json:"id"`
	Name      string      `json:"name"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// CanDeactivate checks if the tenant can transition to inactive status.
// Use with ApplyDeactivation in Execute callbacks.
func (t *Tenant) CanDeactivate() error {
	if !t.Status.CanTransitionTo(StatusInactive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already inactive")
	}
	return nil
}

func (t *Tenant) ApplyDeactivation(now time.Time) {
	t.Status = StatusInactive
	t.UpdatedAt = now
}

// CanReactivate checks if the tenant can transition to active status.
// Use with ApplyReactivation in Execute callbacks.
func (t *Tenant) CanReactivate() error {
	if !t.Status.CanTransitionTo(StatusActive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already active")
	}
	return nil
}

func (t *Tenant) ApplyReactivation(now time.Time) {
	t.Status = StatusActive
	t.UpdatedAt = now
}

func New(tenantID id.TenantID, name string, now time.Time) (*Tenant, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	return &Tenant{
		ID:        tenantID,
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
