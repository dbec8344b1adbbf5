package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veritas/internal/evidence"
	"veritas/internal/evidence/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// maxAttachmentBytes bounds raw attachment uploads.
const maxAttachmentBytes = 32 << 20

// Service defines the evidence operations the handler depends on.
type Service interface {
	CreateDraft(ctx context.Context, commandID string, in evidence.DraftInput) (*models.Draft, bool, error)
	UpdateDraft(ctx context.Context, draftID id.DraftID, in evidence.DraftInput) (*models.Draft, error)
	GetDraft(ctx context.Context, draftID id.DraftID) (*models.Draft, error)
	Attach(ctx context.Context, draftID id.DraftID, content []byte) (*models.Attachment, error)
	Seal(ctx context.Context, draftID id.DraftID, commandID string) (*models.SealedEvidence, bool, error)
	GetEvidence(ctx context.Context, evidenceID id.EvidenceID) (*models.SealedEvidence, error)
}

// Handler wires evidence endpoints to the evidence service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts evidence endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/evidence/drafts", h.HandleCreateDraft)
	r.Get("/evidence/drafts/{draftID}", h.HandleGetDraft)
	r.Put("/evidence/drafts/{draftID}", h.HandleUpdateDraft)
	r.Post("/evidence/drafts/{draftID}/attachments", h.HandleAttach)
	r.Post("/evidence/drafts/{draftID}/seal", h.HandleSeal)
	r.Get("/evidence/{evidenceID}", h.HandleGetEvidence)
}

// HandleCreateDraft handles POST /evidence/drafts requests.
func (h *Handler) HandleCreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DraftRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	commandID := req.CommandID
	if commandID == "" {
		commandID = uuid.NewString()
	}

	draft, replayed, err := h.service.CreateDraft(ctx, commandID, req.ParsedInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "evidence draft created",
		"request_id", requestID,
		"draft_id", draft.ID,
		"replayed", replayed,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromDraft(draft))
}

// HandleGetDraft handles GET /evidence/drafts/{draftID} requests.
func (h *Handler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	draftID, err := id.ParseDraftID(chi.URLParam(r, "draftID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "draft not found"))
		return
	}

	draft, err := h.service.GetDraft(ctx, draftID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDraft(draft))
}

// HandleUpdateDraft handles PUT /evidence/drafts/{draftID} requests.
func (h *Handler) HandleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	draftID, err := id.ParseDraftID(chi.URLParam(r, "draftID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "draft not found"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[DraftRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	draft, err := h.service.UpdateDraft(ctx, draftID, req.ParsedInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "evidence draft updated",
		"request_id", requestID,
		"draft_id", draft.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, FromDraft(draft))
}

// HandleAttach handles POST /evidence/drafts/{draftID}/attachments requests.
// The body is the raw attachment bytes; the digest is computed server-side.
func (h *Handler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	draftID, err := id.ParseDraftID(chi.URLParam(r, "draftID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "draft not found"))
		return
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAttachmentBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read attachment body"))
		return
	}

	attachment, err := h.service.Attach(ctx, draftID, content)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "evidence attachment stored",
		"request_id", requestID,
		"draft_id", draftID,
		"attachment_id", attachment.ID,
		"byte_length", attachment.ByteLength,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromAttachment(attachment))
}

// HandleSeal handles POST /evidence/drafts/{draftID}/seal requests.
func (h *Handler) HandleSeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	draftID, err := id.ParseDraftID(chi.URLParam(r, "draftID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "draft not found"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SealRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sealed, replayed, err := h.service.Seal(ctx, draftID, req.CommandID)
	if err != nil {
		h.logger.WarnContext(ctx, "seal rejected",
			"request_id", requestID,
			"draft_id", draftID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "evidence sealed",
		"request_id", requestID,
		"draft_id", draftID,
		"evidence_id", sealed.ID,
		"ledger_state", sealed.LedgerState,
		"replayed", replayed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromSealed(sealed))
}

// HandleGetEvidence handles GET /evidence/{evidenceID} requests.
func (h *Handler) HandleGetEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	evidenceID, err := id.ParseEvidenceID(chi.URLParam(r, "evidenceID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "evidence not found"))
		return
	}

	sealed, err := h.service.GetEvidence(ctx, evidenceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSealed(sealed))
}
