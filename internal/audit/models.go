package audit

import (
	"time"

	id "worldvault/pkg/domain"
)

// EventType labels what produced an audit event.
type EventType string

const (
	// EventPolicyCheck records the outcome of a policy decision.
	EventPolicyCheck EventType = "policy_check"
	// EventApprovalDecision records a human approve/deny action.
	EventApprovalDecision EventType = "approval_decision"
	// EventRevocation records a consent token revocation.
	EventRevocation EventType = "revocation"
)

// Event is one immutable audit record. The log is a strictly append-only
// sequence ordered by insertion; export must preserve that order. Field names
// follow the export wire format so each line is independently parseable.
type Event struct {
	Timestamp  time.Time      `json:"ts"`
	Type       EventType      `json:"event_type"`
	Subject    string         `json:"subject,omitempty"`
	Agent      string         `json:"agent,omitempty"`
	TokenID    id.TokenID     `json:"jti,omitempty"`
	Scope      string         `json:"scope,omitempty"`
	Resource   string         `json:"resource,omitempty"`
	Decision   string         `json:"decision"`
	Cost       float64        `json:"cost"`
	PaymentRef string         `json:"payment_ref,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}
