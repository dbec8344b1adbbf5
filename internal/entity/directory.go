package entity

import (
	"context"
	"errors"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

// Directory answers tenant-scoped existence checks without exposing entity
// payloads. Evidence targeting and readiness evaluation both resolve
// subjects through it.
type Directory struct {
	store Store
}

func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// Exists reports whether the entity belongs to the tenant. A cross-tenant id
// reports false, same as an absent one.
func (d *Directory) Exists(ctx context.Context, tenantID id.TenantID, entityID id.EntityID) (bool, error) {
	_, err := d.store.FindByID(ctx, tenantID, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
