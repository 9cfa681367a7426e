package approval

import (
	"time"

	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

// Status is the lifecycle state of a human-in-the-loop hold.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDenied   Status = "DENIED"
)

// ParseDecision constructs a terminal Status from external input. PENDING is
// not accepted: holds start pending and only resolve to approved or denied.
func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved, StatusDenied:
		return Status(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "decision must be APPROVED or DENIED")
	}
}

// Snapshot retains the originating decision request, both for audit and so a
// caller re-submitting the same approval id replays an identical action.
type Snapshot struct {
	TokenID          id.TokenID `json:"jti"`
	Subject          string     `json:"subject,omitempty"`
	Agent            string     `json:"agent,omitempty"`
	Action           id.Action  `json:"action"`
	Scope            string     `json:"scope"`
	Resource         string     `json:"resource"`
	Tool             string     `json:"tool"`
	Cost             float64    `json:"cost"`
	Bytes            int64      `json:"bytes"`
	RequiresApproval bool       `json:"requires_approval"`
	PaymentProof     string     `json:"payment_proof,omitempty"`
}

// Request is one pending or resolved hold. Status transitions are overwrites:
// the design deliberately places no authorization or single-use constraint on
// resolution (see DESIGN.md), so ResolvedAt tracks only the latest action.
type Request struct {
	ID         id.ApprovalID
	Status     Status
	Snapshot   Snapshot
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
