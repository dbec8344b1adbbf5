package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/readiness"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the readiness operations the handler depends on.
type Service interface {
	Evaluate(ctx context.Context, in readiness.EvaluateInput) (*readiness.Result, bool, error)
	GetResult(ctx context.Context, resultID id.ResultID) (*readiness.Result, error)
}

// Handler wires readiness endpoints to the readiness service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts readiness endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/readiness/evaluate", h.HandleEvaluate)
	r.Get("/readiness/results/{resultID}", h.HandleGetResult)
}

// HandleEvaluate handles POST /readiness/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, replayed, err := h.service.Evaluate(ctx, req.ParsedInput())
	if err != nil {
		h.logger.WarnContext(ctx, "readiness evaluation rejected",
			"request_id", requestID,
			"framework", req.Framework,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "readiness evaluation served",
		"request_id", requestID,
		"result_id", result.ID,
		"status", result.Status,
		"replayed", replayed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGetResult handles GET /readiness/results/{resultID} requests.
func (h *Handler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resultID, err := id.ParseResultID(chi.URLParam(r, "resultID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "result not found"))
		return
	}

	result, err := h.service.GetResult(ctx, resultID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
