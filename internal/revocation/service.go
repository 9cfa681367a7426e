package revocation

import (
	"context"

	"worldvault/internal/audit"
	"worldvault/internal/platform/metrics"
	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

// RevokeInput carries the revocation event details beyond the token id. The
// extra fields feed the audit trail only; the registry itself stores bare ids.
type RevokeInput struct {
	TokenID        id.TokenID
	Subject        string
	Agent          string
	EventType      string
	Reason         string
	IdempotencyKey string
}

// Service records revocations and their audit trail. Revocation is idempotent:
// revoking an already-revoked token succeeds and is audited again, since the
// second event may carry a different actor or reason.
type Service struct {
	registry Registry
	auditor  *audit.Publisher
	metrics  *metrics.Metrics
}

func NewService(registry Registry, auditor *audit.Publisher, metrics *metrics.Metrics) *Service {
	return &Service{registry: registry, auditor: auditor, metrics: metrics}
}

// Revoke adds the token id to the registry and appends a revocation audit
// event. Every decision evaluated after this returns sees the token revoked.
func (s *Service) Revoke(ctx context.Context, input RevokeInput) error {
	if input.TokenID.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "jti is required")
	}

	if err := s.registry.Revoke(ctx, input.TokenID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}

	if s.metrics != nil {
		s.metrics.IncrementRevocations()
	}

	details := map[string]any{}
	if input.EventType != "" {
		details["event_type"] = input.EventType
	}
	if input.Reason != "" {
		details["reason"] = input.Reason
	}
	if input.IdempotencyKey != "" {
		details["idempotency_key"] = input.IdempotencyKey
	}
	// Revocation must land before the audit line does a caller any good, so a
	// failed append is reported but does not roll back the registry write.
	return s.auditor.Emit(ctx, audit.Event{
		Type:     audit.EventRevocation,
		Subject:  input.Subject,
		Agent:    input.Agent,
		TokenID:  input.TokenID,
		Decision: "BLOCK",
		Details:  details,
	})
}

// IsRevoked exposes registry lookups for the decision engine port.
func (s *Service) IsRevoked(ctx context.Context, tokenID id.TokenID) (bool, error) {
	return s.registry.IsRevoked(ctx, tokenID)
}
