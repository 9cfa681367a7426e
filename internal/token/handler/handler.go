package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"worldvault/internal/platform/metrics"
	"worldvault/internal/token"
	"worldvault/pkg/platform/httputil"
	"worldvault/pkg/requestcontext"
)

// Service defines the interface for consent token issuance.
type Service interface {
	Issue(req token.IssueRequest) (*token.IssuedToken, error)
	JWKS() token.JWKS
}

// Handler wires token issuance and key distribution endpoints.
type Handler struct {
	service    Service
	logger     *slog.Logger
	metrics    *metrics.Metrics
	defaultTTL time.Duration
}

// New constructs a token handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics, defaultTTL time.Duration) *Handler {
	return &Handler{
		service:    service,
		logger:     logger,
		metrics:    metrics,
		defaultTTL: defaultTTL,
	}
}

// Register mounts token endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/consent/issue", h.HandleIssue)
	r.Get("/.well-known/jwks.json", h.HandleJWKS)
}

// HandleIssue handles POST /consent/issue requests.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issued, err := h.service.Issue(req.ToDomain(h.defaultTTL))
	if err != nil {
		h.logger.WarnContext(ctx, "consent issuance rejected",
			"request_id", requestID,
			"subject", req.Subject,
			"agent", req.Agent,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.IncrementTokensIssued()
	}
	h.logger.InfoContext(ctx, "consent token issued",
		"request_id", requestID,
		"jti", issued.ID,
		"subject", req.Subject,
		"agent", req.Agent,
		"expires_at", issued.ExpiresAt.Unix(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromIssued(issued))
}

// HandleJWKS handles GET /.well-known/jwks.json requests.
func (h *Handler) HandleJWKS(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.JWKS())
}
