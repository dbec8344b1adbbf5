package middleware

import (
	"context"
	"net/http"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// TenantGate reports whether a tenant may use the API.
type TenantGate interface {
	RequireActive(ctx context.Context, tenantID id.TenantID) error
}

// RequireActiveTenant rejects requests from deactivated tenants before any
// handler runs. It must sit behind RequireAuth so the tenant id is present.
func RequireActiveTenant(gate TenantGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if err := gate.RequireActive(ctx, requestcontext.TenantID(ctx)); err != nil {
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
