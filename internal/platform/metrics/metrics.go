package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TokensIssued  prometheus.Counter
	Decisions     *prometheus.CounterVec
	HoldsCreated  prometheus.Counter
	Revocations   prometheus.Counter
	CheckDuration prometheus.Histogram
	HTTPDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worldvault_consent_tokens_issued_total",
			Help: "Total number of consent tokens issued",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worldvault_policy_decisions_total",
			Help: "Policy decisions by outcome and reason",
		}, []string{"outcome", "reason"}),
		HoldsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worldvault_approval_holds_created_total",
			Help: "Total number of human-in-the-loop holds created",
		}),
		Revocations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worldvault_token_revocations_total",
			Help: "Total number of consent token revocations",
		}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worldvault_policy_check_duration_ms",
			Help:    "Latency of policy checks in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
		}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worldvault_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds by route",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route", "method"}),
	}
}

// ObserveDecision records a policy decision outcome.
func (m *Metrics) ObserveDecision(outcome, reason string, d time.Duration) {
	m.Decisions.WithLabelValues(outcome, reason).Inc()
	m.CheckDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

// IncrementTokensIssued increments the tokens issued counter by 1.
func (m *Metrics) IncrementTokensIssued() {
	m.TokensIssued.Inc()
}

// IncrementHoldsCreated increments the holds created counter by 1.
func (m *Metrics) IncrementHoldsCreated() {
	m.HoldsCreated.Inc()
}

// IncrementRevocations increments the revocations counter by 1.
func (m *Metrics) IncrementRevocations() {
	m.Revocations.Inc()
}
