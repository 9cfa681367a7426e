package policy

import (
	"context"

	"worldvault/internal/approval"
	"worldvault/internal/audit"
	"worldvault/internal/payment"
	"worldvault/internal/token"
	"worldvault/internal/usage"
	id "worldvault/pkg/domain"
)

// TokenVerifier checks a consent token's signature and validity window.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Revocations answers whether a token id has been revoked. Lookups must see
// every revocation that returned before the check started; the engine never
// caches the answer.
type Revocations interface {
	IsRevoked(ctx context.Context, tokenID id.TokenID) (bool, error)
}

// Ledger books usage against a token id and returns post-increment totals.
type Ledger interface {
	Increment(ctx context.Context, tokenID id.TokenID, action id.Action, bytes int64) (usage.Totals, error)
}

// Approvals manages human-in-the-loop holds.
type Approvals interface {
	Create(ctx context.Context, snapshot approval.Snapshot) (*approval.Request, error)
	Lookup(ctx context.Context, approvalID id.ApprovalID) (*approval.Request, error)
}

// Auditor appends events to the audit log.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Challenger mints payment challenges for paid operations.
type Challenger interface {
	Challenge(tool string, amount float64) payment.Challenge
	Asset() string
}
