// Package admin guards operator-only routes with a shared token.
// Rule, tenant, entity, and profile management are operator surfaces, not
// tenant surfaces.
package admin

import (
	"crypto/subtle"
	"net/http"

	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
)

// TokenHeader carries the operator token.
const TokenHeader = "X-Admin-Token"

// RequireToken rejects requests whose admin token does not match.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(TokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
