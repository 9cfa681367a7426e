// Package domain holds typed identifiers shared across modules. Typed IDs
// prevent cross-type assignment at compile time: a TokenID cannot be passed
// where an ApprovalID is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "worldvault/pkg/domain-errors"
)

// TokenID is the unique identifier (jti) of a consent token. All per-token
// external state (usage, revocation, approvals) is keyed by it; the token
// claims themselves are never rewritten.
//
// Usage: construct via NewTokenID at issuance, ParseTokenID at trust
// boundaries; direct casting bypasses validation.
type TokenID string

const tokenIDPrefix = "ctok_"

// NewTokenID generates a fresh globally-unique token identifier.
func NewTokenID() TokenID {
	return TokenID(tokenIDPrefix + hexID(8))
}

// ParseTokenID constructs a TokenID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or does not carry
// the token id prefix; no other errors are expected.
func ParseTokenID(s string) (TokenID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "token id cannot be empty")
	}
	if !strings.HasPrefix(s, tokenIDPrefix) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid token id")
	}
	return TokenID(s), nil
}

func (t TokenID) String() string { return string(t) }

// IsZero reports whether the id is unset.
func (t TokenID) IsZero() bool { return t == "" }

// ApprovalID identifies a pending human-in-the-loop hold. The value is
// unguessable: knowing one approval id must not allow enumerating others.
type ApprovalID string

const approvalIDPrefix = "appr_"

// NewApprovalID generates a fresh unguessable approval identifier.
func NewApprovalID() ApprovalID {
	return ApprovalID(approvalIDPrefix + hexID(32))
}

// ParseApprovalID constructs an ApprovalID from external input.
func ParseApprovalID(s string) (ApprovalID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "approval id cannot be empty")
	}
	if !strings.HasPrefix(s, approvalIDPrefix) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid approval id")
	}
	return ApprovalID(s), nil
}

func (a ApprovalID) String() string { return string(a) }

// IsZero reports whether the id is unset.
func (a ApprovalID) IsZero() bool { return a == "" }

// hexID returns the first n hex characters of a random UUID.
func hexID(n int) string {
	h := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}
