package testutil

import (
	"net/http"
	"time"

	id "veritas/pkg/domain"
	"veritas/pkg/requestcontext"
)

// WithTenant injects a tenant identity into the request context, simulating
// what the auth middleware does for authenticated requests.
func WithTenant(req *http.Request, tenantID id.TenantID) *http.Request {
	ctx := requestcontext.WithTenantID(req.Context(), tenantID)
	return req.WithContext(ctx)
}

// WithActor injects both tenant and actor identities.
func WithActor(req *http.Request, tenantID id.TenantID, actorID id.ActorID) *http.Request {
	ctx := requestcontext.WithTenantID(req.Context(), tenantID)
	ctx = requestcontext.WithActorID(ctx, actorID)
	return req.WithContext(ctx)
}

// WithFrozenTime pins the request time so handlers observe a deterministic
// clock.
func WithFrozenTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
