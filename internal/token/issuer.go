package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

// Sentinel errors for verification facts. The policy engine translates these
// into block reasons; transport layers into 401 responses.
var (
	ErrTokenInvalid      = errors.New("token signature or claims invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenNotYetValid  = errors.New("token not yet valid")
	ErrTokenMalformed    = errors.New("token has no id")
	ErrNoVerificationKey = errors.New("no verification key configured")
	errUnexpectedSigning = errors.New("unexpected signing method")
)

// Issuer mints and verifies Ed25519-signed consent tokens. Issuance and
// verification are pure cryptographic operations over immutable key material
// and safe for concurrent use.
type Issuer struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	kid        string
	issuer     string
	audience   string
	minTTL     time.Duration
	maxTTL     time.Duration
	now        func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source. Useful for tests that need to cross
// validity boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithTTLBounds sets the administratively configured TTL window.
func WithTTLBounds(min, max time.Duration) Option {
	return func(i *Issuer) {
		i.minTTL = min
		i.maxTTL = max
	}
}

// New constructs an Issuer from a base64url-encoded Ed25519 seed. An empty
// seed generates an ephemeral key pair, matching local development behavior.
func New(seedB64, kid, issuerDID, audience string, opts ...Option) (*Issuer, error) {
	var priv ed25519.PrivateKey
	if seedB64 == "" {
		_, generated, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate ed25519 key: %w", err)
		}
		priv = generated
	} else {
		seed, err := base64.RawURLEncoding.DecodeString(seedB64)
		if err != nil {
			return nil, fmt.Errorf("decode ed25519 seed: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
		}
		priv = ed25519.NewKeyFromSeed(seed)
	}

	i := &Issuer{
		privateKey: priv,
		publicKey:  priv.Public().(ed25519.PublicKey),
		kid:        kid,
		issuer:     issuerDID,
		audience:   audience,
		minTTL:     60 * time.Second,
		maxTTL:     3600 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

// Issue mints a signed consent token. Claims never mutate after this point;
// usage, revocation and approvals are tracked externally by token id.
func (i *Issuer) Issue(req IssueRequest) (*IssuedToken, error) {
	if req.TTL < i.minTTL || req.TTL > i.maxTTL {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"ttl_seconds must be between %d and %d", int(i.minTTL.Seconds()), int(i.maxTTL.Seconds()))
	}
	if req.Subject == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "subject is required")
	}
	if req.Agent == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "agent is required")
	}

	limits := req.Limits.WithDefaults()

	now := i.now()
	jti := id.NewTokenID()
	claims := &Claims{
		Agent:     req.Agent,
		Scopes:    req.Scopes,
		Resources: req.Resources,
		Purpose:   req.Purpose,
		Limits:    limits,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   req.Subject,
			Audience:  []string{i.audience},
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(req.TTL)),
		},
	}

	newToken := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	newToken.Header["kid"] = i.kid

	signed, err := newToken.SignedString(i.privateKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign consent token")
	}

	return &IssuedToken{
		Token:     signed,
		ID:        jti,
		ExpiresAt: now.Add(req.TTL),
		Claims:    claims,
	}, nil
}

// Verify checks signature validity, audience match, and time bounds, and
// returns the claim set. Verification fails closed: with no public key loaded
// every token is rejected rather than silently skipping the signature check.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	return verify(tokenString, i.publicKey, i.audience, i.now)
}

// Verifier validates tokens using only public key material, for deployments
// where the checking process does not hold the signing key.
type Verifier struct {
	publicKey ed25519.PublicKey
	audience  string
	now       func() time.Time
}

// NewVerifier builds a verify-only counterpart from a base64url-encoded
// public key. An empty key yields a verifier that rejects everything.
func NewVerifier(publicKeyB64, audience string) (*Verifier, error) {
	v := &Verifier{audience: audience, now: time.Now}
	if publicKeyB64 == "" {
		return v, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, fmt.Errorf("decode ed25519 public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	v.publicKey = ed25519.PublicKey(raw)
	return v, nil
}

// Verify checks signature validity, audience match, and time bounds.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	return verify(tokenString, v.publicKey, v.audience, v.now)
}

func verify(tokenString string, publicKey ed25519.PublicKey, audience string, now func() time.Time) (*Claims, error) {
	if len(publicKey) == 0 {
		return nil, ErrNoVerificationKey
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, errUnexpectedSigning
		}
		return publicKey, nil
	},
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	if claims.ID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
