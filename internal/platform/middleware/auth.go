package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	jwttoken "veritas/internal/jwt_token"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// TokenValidator validates bearer tokens from the external identity provider.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAuth extracts the tenant-scoped actor identity from the bearer token
// and injects it into the request context. Requests without a valid tenant
// identity never reach tenant-owned stores.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			tenantID, err := id.ParseTenantID(claims.TenantID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - token without tenant",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token does not carry a tenant identity"))
				return
			}
			actorID, err := id.ParseActorID(claims.Subject)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token does not carry an actor identity"))
				return
			}

			ctx = requestcontext.WithTenantID(ctx, tenantID)
			ctx = requestcontext.WithActorID(ctx, actorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
