package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"worldvault/internal/policy"
	"worldvault/pkg/platform/httputil"
	"worldvault/pkg/requestcontext"
)

// Service defines the interface for policy decisions.
type Service interface {
	Check(ctx context.Context, req policy.CheckRequest) (*policy.Decision, error)
}

// Handler wires the policy check endpoint to the decision engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a policy handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts policy endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/policy/check", h.HandleCheck)
}

// HandleCheck handles POST /policy/check requests. ALLOW, HOLD, and BLOCK all
// return 200 with the decision in the body; PAYMENT_REQUIRED is the one
// outcome that surfaces as an HTTP status, 402 with the settlement
// requirements.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, err := h.service.Check(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "policy check failed",
			"request_id", requestID,
			"scope", req.Scope,
			"resource", req.Resource,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy check completed",
		"request_id", requestID,
		"decision", decision.Outcome,
		"reason", decision.Reason,
		"scope", req.Scope,
		"resource", req.Resource,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if decision.Outcome == policy.OutcomePaymentRequired {
		httputil.WriteJSON(w, http.StatusPaymentRequired, PaymentRequiredResponse{
			Error:        "payment_required",
			Requirements: *decision.Challenge,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}
