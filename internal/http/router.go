package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approvalHandler "worldvault/internal/approval/handler"
	auditHandler "worldvault/internal/audit/handler"
	"worldvault/internal/platform/metrics"
	"worldvault/internal/platform/middleware"
	policyHandler "worldvault/internal/policy/handler"
	revocationHandler "worldvault/internal/revocation/handler"
	tokenHandler "worldvault/internal/token/handler"
	"worldvault/pkg/platform/httputil"
)

// Registrar is anything that can mount its routes on a chi router. All module
// handlers satisfy it.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router mounts. Health reports per-dependency
// state; a nil func means no external dependencies to check.
type Deps struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Token      *tokenHandler.Handler
	Policy     *policyHandler.Handler
	Approval   *approvalHandler.Handler
	Revocation *revocationHandler.Handler
	Audit      *auditHandler.Handler
	Health     func() map[string]string
}

// NewRouter assembles the full HTTP surface: module routes behind the JSON
// middleware chain, plus health and metrics endpoints outside it.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.LatencyMiddleware(d.Metrics))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		for _, h := range []Registrar{d.Token, d.Policy, d.Approval, d.Revocation, d.Audit} {
			h.Register(r)
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		deps := map[string]string{}
		if d.Health != nil {
			deps = d.Health()
		}
		status := http.StatusOK
		overall := "ok"
		for _, state := range deps {
			if state != "ok" {
				status = http.StatusServiceUnavailable
				overall = "degraded"
			}
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":       overall,
			"dependencies": deps,
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
