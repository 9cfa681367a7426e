package handler

import (
	"worldvault/internal/revocation"
	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

// RevokeRequest is the HTTP request body for POST /revoke.
type RevokeRequest struct {
	JTI            string `json:"jti"`
	Reason         string `json:"reason,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	parsedTokenID id.TokenID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RevokeRequest) Validate() error {
	tokenID, err := id.ParseTokenID(r.JTI)
	if err != nil {
		return err
	}
	r.parsedTokenID = tokenID
	return nil
}

// ToDomain converts the request into revocation inputs.
func (r *RevokeRequest) ToDomain() revocation.RevokeInput {
	reason := r.Reason
	if reason == "" {
		reason = "user_revoked"
	}
	return revocation.RevokeInput{
		TokenID:        r.parsedTokenID,
		Reason:         reason,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// WebhookRequest is the HTTP request body for POST /webhooks/revocation, as
// emitted by external consent dashboards.
type WebhookRequest struct {
	EventType      string   `json:"event_type"`
	SubjectDID     string   `json:"subject_did"`
	AgentDID       string   `json:"agent_did"`
	JTI            string   `json:"jti"`
	Scopes         []string `json:"scopes,omitempty"`
	Resources      []string `json:"resources,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	IdempotencyKey string   `json:"idempotency_key,omitempty"`

	parsedTokenID id.TokenID
}

// Validate validates and parses the request.
func (r *WebhookRequest) Validate() error {
	switch r.EventType {
	case "CONSENT_REVOKED", "SCOPE_REVOKED":
	default:
		return dErrors.New(dErrors.CodeValidation, "event_type must be CONSENT_REVOKED or SCOPE_REVOKED")
	}
	tokenID, err := id.ParseTokenID(r.JTI)
	if err != nil {
		return err
	}
	r.parsedTokenID = tokenID
	return nil
}

// ToDomain converts the webhook into revocation inputs.
func (r *WebhookRequest) ToDomain() revocation.RevokeInput {
	return revocation.RevokeInput{
		TokenID:        r.parsedTokenID,
		Subject:        r.SubjectDID,
		Agent:          r.AgentDID,
		EventType:      r.EventType,
		Reason:         r.Reason,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// RevokeResponse is the HTTP response for both revocation endpoints.
type RevokeResponse struct {
	Status  string `json:"status"`
	TokenID string `json:"token_id"`
}
