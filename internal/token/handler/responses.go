package handler

import (
	"worldvault/internal/token"
)

// IssueResponse is the HTTP response for POST /consent/issue.
type IssueResponse struct {
	Token     string        `json:"token"`
	JTI       string        `json:"jti"`
	ExpiresAt int64         `json:"expires_at"`
	Claims    *token.Claims `json:"claims"`
}

// FromIssued converts an issuance result to an HTTP response.
func FromIssued(issued *token.IssuedToken) *IssueResponse {
	return &IssueResponse{
		Token:     issued.Token,
		JTI:       issued.ID.String(),
		ExpiresAt: issued.ExpiresAt.Unix(),
		Claims:    issued.Claims,
	}
}
