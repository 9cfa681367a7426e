package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	dErrors "worldvault/pkg/domain-errors"
)

type IssuerSuite struct {
	suite.Suite
	now    time.Time
	issuer *Issuer
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := New("", "test_kid", "did:wv:issuer:test", "worldvault-policy",
		WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)
	s.issuer = issuer
}

func (s *IssuerSuite) issueRequest() IssueRequest {
	return IssueRequest{
		Subject:   "did:wv:user:alice",
		Agent:     "did:wv:agent:assistant",
		Scopes:    []string{"vault.read"},
		Resources: []string{"doc://notes"},
		Purpose:   "summarize notes",
		TTL:       10 * time.Minute,
	}
}

func (s *IssuerSuite) TestIssueAndVerifyRoundtrip() {
	issued, err := s.issuer.Issue(s.issueRequest())
	s.Require().NoError(err)

	s.True(len(issued.Token) > 0)
	s.Contains(issued.ID.String(), "ctok_")
	s.Equal(s.now.Add(10*time.Minute), issued.ExpiresAt)

	claims, err := s.issuer.Verify(issued.Token)
	s.Require().NoError(err)
	s.Equal("did:wv:user:alice", claims.Subject)
	s.Equal("did:wv:agent:assistant", claims.Agent)
	s.Equal([]string{"vault.read"}, claims.Scopes)
	s.Equal([]string{"doc://notes"}, claims.Resources)
	s.Equal("summarize notes", claims.Purpose)
	s.Equal(issued.ID, claims.TokenID())
}

func (s *IssuerSuite) TestIssueAppliesDefaultLimits() {
	issued, err := s.issuer.Issue(s.issueRequest())
	s.Require().NoError(err)

	s.Equal(DefaultLimits(), issued.Claims.Limits)
}

func (s *IssuerSuite) TestIssueKeepsExplicitLimits() {
	req := s.issueRequest()
	req.Limits = Limits{MaxReads: 2, MaxWrites: 1, RatePerMin: 4, BytesCap: 1024}

	issued, err := s.issuer.Issue(req)
	s.Require().NoError(err)

	s.Equal(req.Limits, issued.Claims.Limits)
}

func (s *IssuerSuite) TestIssueFillsUnsetLimitFields() {
	req := s.issueRequest()
	req.Limits = Limits{MaxReads: 100}

	issued, err := s.issuer.Issue(req)
	s.Require().NoError(err)

	s.Equal(Limits{MaxReads: 100, MaxWrites: 5, RatePerMin: 10, BytesCap: 65536},
		issued.Claims.Limits)
}

func (s *IssuerSuite) TestIssueRejectsTTLOutOfBounds() {
	for _, ttl := range []time.Duration{30 * time.Second, 2 * time.Hour} {
		req := s.issueRequest()
		req.TTL = ttl

		_, err := s.issuer.Issue(req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func (s *IssuerSuite) TestIssueRespectsConfiguredBounds() {
	issuer, err := New("", "kid", "did:wv:issuer:test", "aud",
		WithClock(func() time.Time { return s.now }),
		WithTTLBounds(time.Second, 5*time.Second))
	s.Require().NoError(err)

	req := s.issueRequest()
	req.TTL = 3 * time.Second
	_, err = issuer.Issue(req)
	s.NoError(err)

	req.TTL = 10 * time.Minute
	_, err = issuer.Issue(req)
	s.Error(err)
}

func (s *IssuerSuite) TestIssueRequiresSubjectAndAgent() {
	req := s.issueRequest()
	req.Subject = ""
	_, err := s.issuer.Issue(req)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	req = s.issueRequest()
	req.Agent = ""
	_, err = s.issuer.Issue(req)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *IssuerSuite) TestVerifyExpiredToken() {
	issued, err := s.issuer.Issue(s.issueRequest())
	s.Require().NoError(err)

	s.now = s.now.Add(11 * time.Minute)
	_, err = s.issuer.Verify(issued.Token)
	s.ErrorIs(err, ErrTokenExpired)
}

func (s *IssuerSuite) TestVerifyNotYetValidToken() {
	issued, err := s.issuer.Issue(s.issueRequest())
	s.Require().NoError(err)

	s.now = s.now.Add(-2 * time.Minute)
	_, err = s.issuer.Verify(issued.Token)
	s.ErrorIs(err, ErrTokenNotYetValid)
}

func (s *IssuerSuite) TestVerifyRejectsForeignSignature() {
	other, err := New("", "other_kid", "did:wv:issuer:other", "worldvault-policy",
		WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)

	issued, err := other.Issue(s.issueRequest())
	s.Require().NoError(err)

	_, err = s.issuer.Verify(issued.Token)
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *IssuerSuite) TestVerifyRejectsWrongAudience() {
	other, err := New("", "kid", "did:wv:issuer:test", "some-other-service",
		WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)

	issued, err := other.Issue(s.issueRequest())
	s.Require().NoError(err)

	verifier := &Verifier{publicKey: other.publicKey, audience: "worldvault-policy", now: func() time.Time { return s.now }}
	_, err = verifier.Verify(issued.Token)
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *IssuerSuite) TestVerifyRejectsGarbage() {
	_, err := s.issuer.Verify("not.a.token")
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *IssuerSuite) TestVerifyRejectsTokenWithoutID() {
	claims := &Claims{
		Agent: "did:wv:agent:assistant",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "did:wv:issuer:test",
			Subject:   "did:wv:user:alice",
			Audience:  []string{"worldvault-policy"},
			IssuedAt:  jwt.NewNumericDate(s.now),
			NotBefore: jwt.NewNumericDate(s.now),
			ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Minute)),
		},
	}
	raw := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := raw.SignedString(s.issuer.privateKey)
	s.Require().NoError(err)

	_, err = s.issuer.Verify(signed)
	s.ErrorIs(err, ErrTokenMalformed)
}

func (s *IssuerSuite) TestVerifierFailsClosedWithoutKey() {
	verifier, err := NewVerifier("", "worldvault-policy")
	s.Require().NoError(err)

	issued, err := s.issuer.Issue(s.issueRequest())
	s.Require().NoError(err)

	_, err = verifier.Verify(issued.Token)
	s.ErrorIs(err, ErrNoVerificationKey)
}

func (s *IssuerSuite) TestVerifierAcceptsDistributedKey() {
	verifier, err := NewVerifier(s.issuer.PublicKeyB64(), "worldvault-policy")
	s.Require().NoError(err)
	verifier.now = func() time.Time { return s.now }

	issued, err := s.issuer.Issue(s.issueRequest())
	s.Require().NoError(err)

	claims, err := verifier.Verify(issued.Token)
	s.Require().NoError(err)
	s.Equal(issued.ID, claims.TokenID())
}

func (s *IssuerSuite) TestDeterministicKeyFromSeed() {
	seed := base64.RawURLEncoding.EncodeToString(make([]byte, 32))

	a, err := New(seed, "kid", "iss", "aud")
	s.Require().NoError(err)
	b, err := New(seed, "kid", "iss", "aud")
	s.Require().NoError(err)

	s.Equal(a.PublicKeyB64(), b.PublicKeyB64())
}

func (s *IssuerSuite) TestJWKSShape() {
	doc := s.issuer.JWKS()

	s.Require().Len(doc.Keys, 1)
	key := doc.Keys[0]
	s.Equal("OKP", key.Kty)
	s.Equal("Ed25519", key.Crv)
	s.Equal("EdDSA", key.Alg)
	s.Equal("sig", key.Use)
	s.Equal("test_kid", key.Kid)
	s.Equal(s.issuer.PublicKeyB64(), key.X)
}
