package handler

import (
	"strings"
	"time"

	"worldvault/internal/token"
	dErrors "worldvault/pkg/domain-errors"
)

// IssueRequest is the HTTP request body for POST /consent/issue. Field names
// mirror the claim names so callers see the same vocabulary in both places.
type IssueRequest struct {
	Subject    string        `json:"sub"`
	Agent      string        `json:"act"`
	Scopes     []string      `json:"scp"`
	Resources  []string      `json:"res"`
	Purpose    string        `json:"purpose"`
	Limits     *token.Limits `json:"limits,omitempty"`
	TTLSeconds int           `json:"ttl_seconds,omitempty"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *IssueRequest) Validate() error {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Agent = strings.TrimSpace(r.Agent)
	if r.Subject == "" {
		return dErrors.New(dErrors.CodeValidation, "sub is required")
	}
	if r.Agent == "" {
		return dErrors.New(dErrors.CodeValidation, "act is required")
	}
	if len(r.Scopes) == 0 {
		return dErrors.New(dErrors.CodeValidation, "scp must not be empty")
	}
	if len(r.Resources) == 0 {
		return dErrors.New(dErrors.CodeValidation, "res must not be empty")
	}
	if r.TTLSeconds < 0 {
		return dErrors.New(dErrors.CodeValidation, "ttl_seconds must not be negative")
	}
	return nil
}

// ToDomain converts the request into issuance inputs, filling the configured
// default TTL when the caller omitted one. TTL bound enforcement stays in the
// issuer so the rule lives in one place.
func (r *IssueRequest) ToDomain(defaultTTL time.Duration) token.IssueRequest {
	ttl := defaultTTL
	if r.TTLSeconds > 0 {
		ttl = time.Duration(r.TTLSeconds) * time.Second
	}
	req := token.IssueRequest{
		Subject:   r.Subject,
		Agent:     r.Agent,
		Scopes:    r.Scopes,
		Resources: r.Resources,
		Purpose:   r.Purpose,
		TTL:       ttl,
	}
	if r.Limits != nil {
		req.Limits = *r.Limits
	}
	return req
}
