package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"worldvault/internal/audit"
	"worldvault/pkg/requestcontext"
)

// Handler serves the audit export endpoint.
type Handler struct {
	publisher *audit.Publisher
	logger    *slog.Logger
}

// New constructs an audit handler.
func New(publisher *audit.Publisher, logger *slog.Logger) *Handler {
	return &Handler{publisher: publisher, logger: logger}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/export.jsonl", h.HandleExport)
}

// HandleExport handles GET /audit/export.jsonl requests, streaming the full
// ordered event sequence as line-delimited JSON.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/jsonl")

	if err := h.publisher.ExportJSONL(ctx, w); err != nil {
		// Headers are already sent once streaming starts; log and give up on
		// this response rather than writing a second status line.
		h.logger.ErrorContext(ctx, "audit export failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
}
