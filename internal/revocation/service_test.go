package revocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"worldvault/internal/audit"
	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

type RevocationServiceSuite struct {
	suite.Suite
	ctx        context.Context
	registry   *InMemoryRegistry
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestRevocationServiceSuite(t *testing.T) {
	suite.Run(t, new(RevocationServiceSuite))
}

func (s *RevocationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = NewInMemoryRegistry()
	s.auditStore = audit.NewInMemoryStore()
	s.service = NewService(s.registry, audit.NewPublisher(s.auditStore), nil)
}

func (s *RevocationServiceSuite) TestRevokeMarksTokenAndAudits() {
	tokenID := id.NewTokenID()

	err := s.service.Revoke(s.ctx, RevokeInput{
		TokenID: tokenID,
		Subject: "did:wv:user:alice",
		Reason:  "user_revoked",
	})
	s.Require().NoError(err)

	revoked, err := s.service.IsRevoked(s.ctx, tokenID)
	s.Require().NoError(err)
	s.True(revoked)

	events, err := s.auditStore.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.EventRevocation, events[0].Type)
	s.Equal(tokenID, events[0].TokenID)
	s.Equal("user_revoked", events[0].Details["reason"])
}

func (s *RevocationServiceSuite) TestRevokeRequiresTokenID() {
	err := s.service.Revoke(s.ctx, RevokeInput{Reason: "user_revoked"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *RevocationServiceSuite) TestRevokeIsIdempotent() {
	tokenID := id.NewTokenID()

	s.Require().NoError(s.service.Revoke(s.ctx, RevokeInput{TokenID: tokenID}))
	s.Require().NoError(s.service.Revoke(s.ctx, RevokeInput{TokenID: tokenID, Reason: "second attempt"}))

	revoked, err := s.service.IsRevoked(s.ctx, tokenID)
	s.Require().NoError(err)
	s.True(revoked)

	// Both revocations are audited; the second may carry a different actor.
	events, err := s.auditStore.List(s.ctx)
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *RevocationServiceSuite) TestUnrevokedTokenReadsFalse() {
	revoked, err := s.service.IsRevoked(s.ctx, id.NewTokenID())
	s.Require().NoError(err)
	s.False(revoked)
}
