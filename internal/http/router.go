// Package httpapi composes the HTTP surface: the authenticated tenant API
// under /v1, the token-gated operator API under /admin, and the unauthenticated
// operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritas/internal/admin"
	"veritas/internal/audit"
	evidencehandler "veritas/internal/evidence/handler"
	"veritas/internal/platform/middleware"
	readinesshandler "veritas/internal/readiness/handler"
	adminmw "veritas/pkg/platform/middleware/admin"
	"veritas/pkg/platform/middleware/metadata"
	"veritas/pkg/platform/middleware/requesttime"
	"veritas/pkg/platform/middleware/version"
)

// Deps carries everything the router mounts.
type Deps struct {
	Evidence  *evidencehandler.Handler
	Readiness *readinesshandler.Handler
	Admin     *admin.Handler
	Audit     *audit.Handler

	JWTValidator middleware.TokenValidator
	TenantGate   middleware.TenantGate
	AdminToken   string
	BuildVersion string
	Logger       *slog.Logger
}

// NewRouter wires all endpoints. Every response carries X-Request-ID and
// X-Build-Version; tenant routes additionally require a bearer token and an
// active tenant.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(version.Middleware(deps.BuildVersion))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.RequireAuth(deps.JWTValidator, deps.Logger))
		v1.Use(middleware.RequireActiveTenant(deps.TenantGate))
		deps.Evidence.Register(v1)
		deps.Readiness.Register(v1)
		deps.Audit.Register(v1)
	})

	r.Route("/admin", func(adminRouter chi.Router) {
		adminRouter.Use(adminmw.RequireToken(deps.AdminToken))
		deps.Admin.Register(adminRouter)
	})

	return r
}
