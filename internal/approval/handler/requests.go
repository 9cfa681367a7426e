package handler

import (
	"worldvault/internal/approval"
	id "worldvault/pkg/domain"
)

// ResolveRequest is the HTTP request body for POST /policy/approve.
type ResolveRequest struct {
	ApprovalID string `json:"approval_id"`
	Decision   string `json:"decision"`

	// Parsed values (populated by Validate)
	parsedApprovalID id.ApprovalID
	parsedDecision   approval.Status
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ResolveRequest) Validate() error {
	approvalID, err := id.ParseApprovalID(r.ApprovalID)
	if err != nil {
		return err
	}
	r.parsedApprovalID = approvalID

	decision, err := approval.ParseDecision(r.Decision)
	if err != nil {
		return err
	}
	r.parsedDecision = decision
	return nil
}

// ParsedApprovalID returns the validated approval id.
func (r *ResolveRequest) ParsedApprovalID() id.ApprovalID {
	return r.parsedApprovalID
}

// ParsedDecision returns the validated terminal decision.
func (r *ResolveRequest) ParsedDecision() approval.Status {
	return r.parsedDecision
}

// ResolveResponse is the HTTP response for POST /policy/approve.
type ResolveResponse struct {
	Status     string `json:"status"`
	ApprovalID string `json:"approval_id"`
}
