package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"worldvault/internal/revocation"
	"worldvault/pkg/platform/httputil"
	"worldvault/pkg/requestcontext"
)

// Service defines the interface for revocation operations.
type Service interface {
	Revoke(ctx context.Context, input revocation.RevokeInput) error
}

// Handler wires the direct revoke endpoint and the webhook form used by
// external consent dashboards.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a revocation handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts revocation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/revoke", h.HandleRevoke)
	r.Post("/webhooks/revocation", h.HandleWebhook)
}

// HandleRevoke handles POST /revoke requests.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RevokeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.revoke(w, r, req.ToDomain(), requestID)
}

// HandleWebhook handles POST /webhooks/revocation requests.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[WebhookRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.revoke(w, r, req.ToDomain(), requestID)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request, input revocation.RevokeInput, requestID string) {
	ctx := r.Context()

	if err := h.service.Revoke(ctx, input); err != nil {
		h.logger.ErrorContext(ctx, "revocation failed",
			"request_id", requestID,
			"jti", input.TokenID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "token revoked",
		"request_id", requestID,
		"jti", input.TokenID,
		"reason", input.Reason,
	)

	httputil.WriteJSON(w, http.StatusOK, RevokeResponse{
		Status:  "revoked",
		TokenID: input.TokenID.String(),
	})
}
