package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "worldvault/pkg/domain"
)

// Limits caps what an agent may do under a single consent token. The caps are
// enforced by the policy engine against the usage ledger, never by rewriting
// the token.
type Limits struct {
	MaxReads   int `json:"max_reads"`
	MaxWrites  int `json:"max_writes"`
	RatePerMin int `json:"rate_per_min"`
	BytesCap   int `json:"bytes_cap"`
}

// DefaultLimits returns the caps applied when an issue request leaves a field
// unset.
func DefaultLimits() Limits {
	return Limits{
		MaxReads:   30,
		MaxWrites:  5,
		RatePerMin: 10,
		BytesCap:   65536,
	}
}

// WithDefaults returns a copy with each unset field replaced by its default.
// Defaulting is per field, so a grant may cap a single dimension and inherit
// the rest.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l.MaxReads == 0 {
		l.MaxReads = d.MaxReads
	}
	if l.MaxWrites == 0 {
		l.MaxWrites = d.MaxWrites
	}
	if l.RatePerMin == 0 {
		l.RatePerMin = d.RatePerMin
	}
	if l.BytesCap == 0 {
		l.BytesCap = d.BytesCap
	}
	return l
}

// Claims is the full claim set of a consent token. Immutable once issued: the
// signature covers every field, and all mutable state (usage, revocation,
// approvals) lives in external stores keyed by the token id.
type Claims struct {
	Agent     string   `json:"act"`
	Scopes    []string `json:"scp"`
	Resources []string `json:"res"`
	Purpose   string   `json:"purpose"`
	Limits    Limits   `json:"limits"`
	jwt.RegisteredClaims
}

// TokenID returns the typed token id (jti).
func (c *Claims) TokenID() id.TokenID {
	return id.TokenID(c.ID)
}

// HasScope reports whether the requested scope is granted by the token.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// HasResource reports whether the requested resource is on the allowlist.
func (c *Claims) HasResource(resource string) bool {
	for _, r := range c.Resources {
		if r == resource {
			return true
		}
	}
	return false
}

// IssueRequest carries the inputs for minting a consent token.
type IssueRequest struct {
	Subject   string
	Agent     string
	Scopes    []string
	Resources []string
	Purpose   string
	Limits    Limits
	TTL       time.Duration
}

// IssuedToken is the issuance result: the opaque signed token plus the
// plaintext claims for display.
type IssuedToken struct {
	Token     string
	ID        id.TokenID
	ExpiresAt time.Time
	Claims    *Claims
}
