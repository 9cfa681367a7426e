package handler

import (
	"strings"

	"worldvault/internal/policy"
	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

// CheckRequest is the HTTP request body for POST /policy/check.
type CheckRequest struct {
	Token            string  `json:"token"`
	Action           string  `json:"action"`
	Scope            string  `json:"scope"`
	Resource         string  `json:"resource"`
	Tool             string  `json:"tool"`
	Cost             float64 `json:"cost,omitempty"`
	Bytes            int64   `json:"bytes,omitempty"`
	RequiresApproval bool    `json:"requires_approval,omitempty"`
	PaymentProof     string  `json:"payment_proof,omitempty"`
	ApprovalID       string  `json:"approval_id,omitempty"`

	parsedAction     id.Action
	parsedApprovalID id.ApprovalID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CheckRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}

	action, err := id.ParseAction(r.Action)
	if err != nil {
		return err
	}
	r.parsedAction = action

	if r.Scope == "" {
		return dErrors.New(dErrors.CodeValidation, "scope is required")
	}
	if r.Resource == "" {
		return dErrors.New(dErrors.CodeValidation, "resource is required")
	}
	if r.Tool == "" {
		return dErrors.New(dErrors.CodeValidation, "tool is required")
	}
	if r.Cost < 0 {
		return dErrors.New(dErrors.CodeValidation, "cost must not be negative")
	}
	if r.Bytes < 0 {
		return dErrors.New(dErrors.CodeValidation, "bytes must not be negative")
	}

	// Any non-empty approval id is forwarded as-is. An id that matches no
	// hold, whatever its shape, comes back as a block decision rather than a
	// validation error.
	r.parsedApprovalID = id.ApprovalID(r.ApprovalID)
	return nil
}

// ToDomain converts the request into an engine check request.
func (r *CheckRequest) ToDomain() policy.CheckRequest {
	return policy.CheckRequest{
		Token:            r.Token,
		Action:           r.parsedAction,
		Scope:            r.Scope,
		Resource:         r.Resource,
		Tool:             r.Tool,
		Cost:             r.Cost,
		Bytes:            r.Bytes,
		RequiresApproval: r.RequiresApproval,
		PaymentProof:     r.PaymentProof,
		ApprovalID:       r.parsedApprovalID,
	}
}
