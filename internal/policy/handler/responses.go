package handler

import (
	"worldvault/internal/payment"
	"worldvault/internal/policy"
)

// CheckResponse is the HTTP response for ALLOW, HOLD, and BLOCK decisions.
type CheckResponse struct {
	Decision   string          `json:"decision"`
	Reason     string          `json:"reason,omitempty"`
	ApprovalID string          `json:"approval_id,omitempty"`
	Receipt    *policy.Receipt `json:"receipt,omitempty"`
}

// PaymentRequiredResponse is the 402 body for PAYMENT_REQUIRED decisions. The
// requirements object is what the caller must settle before retrying with a
// payment_proof.
type PaymentRequiredResponse struct {
	Error        string            `json:"error"`
	Requirements payment.Challenge `json:"requirements"`
}

// FromDecision maps an engine decision to its 200-status response shape.
func FromDecision(d *policy.Decision) CheckResponse {
	resp := CheckResponse{
		Decision: string(d.Outcome),
		Reason:   d.Reason,
		Receipt:  d.Receipt,
	}
	if !d.ApprovalID.IsZero() {
		resp.ApprovalID = d.ApprovalID.String()
	}
	return resp
}
