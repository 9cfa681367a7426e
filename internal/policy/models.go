package policy

import (
	"worldvault/internal/payment"
	id "worldvault/pkg/domain"
)

// Outcome is the terminal result class of a policy check.
type Outcome string

const (
	OutcomeAllow           Outcome = "ALLOW"
	OutcomeHold            Outcome = "HOLD"
	OutcomeBlock           Outcome = "BLOCK"
	OutcomePaymentRequired Outcome = "PAYMENT_REQUIRED"
)

// Reason codes attached to BLOCK decisions. The strings are part of the API
// surface: callers branch on them.
const (
	ReasonAuthInvalid        = "auth_invalid"
	ReasonAuthExpired        = "auth_expired"
	ReasonAuthNotYetValid    = "auth_not_yet_valid"
	ReasonMalformed          = "malformed"
	ReasonRevoked            = "revoked"
	ReasonScopeDenied        = "scope_denied"
	ReasonResourceDenied     = "resource_denied"
	ReasonBytesCapExceeded   = "bytes_cap_exceeded"
	ReasonReadLimitExceeded  = "read_limit_exceeded"
	ReasonWriteLimitExceeded = "write_limit_exceeded"
	ReasonApprovalNotFound   = "approval_not_found"
	ReasonApprovalDenied     = "approval_denied"
)

// CheckRequest carries one agent operation to be judged.
type CheckRequest struct {
	Token            string
	Action           id.Action
	Scope            string
	Resource         string
	Tool             string
	Cost             float64
	Bytes            int64
	RequiresApproval bool
	PaymentProof     string
	ApprovalID       id.ApprovalID
}

// Receipt is the proof of an allowed operation, echoing what was paid for.
type Receipt struct {
	Tool       string  `json:"tool"`
	Amount     float64 `json:"amount"`
	Asset      string  `json:"asset"`
	PaymentRef string  `json:"payment_ref,omitempty"`
}

// Decision is the engine's verdict. Exactly one of the optional fields is
// populated depending on the outcome: ApprovalID for HOLD, Challenge for
// PAYMENT_REQUIRED, Receipt for ALLOW. PAYMENT_REQUIRED stays a first-class
// outcome here; only the HTTP layer turns it into a 402.
type Decision struct {
	Outcome    Outcome
	Reason     string
	ApprovalID id.ApprovalID
	Receipt    *Receipt
	Challenge  *payment.Challenge
}
