package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"worldvault/internal/approval"
	id "worldvault/pkg/domain"
	"worldvault/pkg/platform/httputil"
	"worldvault/pkg/requestcontext"
)

// Service defines the interface for approval resolution.
type Service interface {
	Resolve(ctx context.Context, approvalID id.ApprovalID, decision approval.Status) (*approval.Request, error)
	Lookup(ctx context.Context, approvalID id.ApprovalID) (*approval.Request, error)
}

// Handler wires the approve/deny endpoint for pending holds.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an approval handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts approval endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/policy/approve", h.HandleResolve)
}

// HandleResolve handles POST /policy/approve requests.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ResolveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resolved, err := h.service.Resolve(ctx, req.ParsedApprovalID(), req.ParsedDecision())
	if err != nil {
		h.logger.WarnContext(ctx, "approval resolution failed",
			"request_id", requestID,
			"approval_id", req.ApprovalID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "approval resolved",
		"request_id", requestID,
		"approval_id", resolved.ID,
		"status", resolved.Status,
	)

	httputil.WriteJSON(w, http.StatusOK, ResolveResponse{
		Status:     string(resolved.Status),
		ApprovalID: resolved.ID.String(),
	})
}
