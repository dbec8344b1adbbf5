package admin

import (
	"time"

	"veritas/internal/entity"
	"veritas/internal/tenant"
)

// TenantResponse is the HTTP shape of a tenant.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func FromTenant(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}

// EntityResponse is the HTTP shape of a subject entity.
type EntityResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func FromEntity(e *entity.Entity) *EntityResponse {
	return &EntityResponse{
		ID:        e.ID.String(),
		TenantID:  e.TenantID.String(),
		Kind:      string(e.Kind),
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
	}
}
