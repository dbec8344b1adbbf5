package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

const defaultListLimit = 100

// Handler exposes the tenant's audit ledger read-only.
type Handler struct {
	publisher *Publisher
	logger    *slog.Logger
}

func NewHandler(publisher *Publisher, logger *slog.Logger) *Handler {
	return &Handler{publisher: publisher, logger: logger}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/events", h.HandleList)
}

// HandleList handles GET /audit/events requests. Events come back newest
// first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	events, err := h.publisher.List(ctx, requestcontext.TenantID(ctx), limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit list failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
