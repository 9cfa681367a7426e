package approval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"worldvault/internal/audit"
	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

type ApprovalServiceSuite struct {
	suite.Suite
	ctx        context.Context
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestApprovalServiceSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceSuite))
}

func (s *ApprovalServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.auditStore = audit.NewInMemoryStore()
	s.service = NewService(NewInMemoryStore(), audit.NewPublisher(s.auditStore))
}

func (s *ApprovalServiceSuite) snapshot() Snapshot {
	return Snapshot{
		TokenID:  id.NewTokenID(),
		Subject:  "did:wv:user:alice",
		Agent:    "did:wv:agent:assistant",
		Action:   id.ActionRead,
		Scope:    "vault.read",
		Resource: "doc://notes",
		Tool:     "notes_reader",
		Cost:     0.10,
	}
}

func (s *ApprovalServiceSuite) TestCreateStartsPending() {
	req, err := s.service.Create(s.ctx, s.snapshot())
	s.Require().NoError(err)

	s.Contains(req.ID.String(), "appr_")
	s.Equal(StatusPending, req.Status)
	s.Nil(req.ResolvedAt)

	found, err := s.service.Lookup(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(req.ID, found.ID)
	s.Equal(req.Snapshot, found.Snapshot)
}

func (s *ApprovalServiceSuite) TestLookupUnknownIDIsNotFound() {
	_, err := s.service.Lookup(s.ctx, id.NewApprovalID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ApprovalServiceSuite) TestResolveApproves() {
	created, err := s.service.Create(s.ctx, s.snapshot())
	s.Require().NoError(err)

	resolved, err := s.service.Resolve(s.ctx, created.ID, StatusApproved)
	s.Require().NoError(err)

	s.Equal(StatusApproved, resolved.Status)
	s.Require().NotNil(resolved.ResolvedAt)

	events, err := s.auditStore.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.EventApprovalDecision, events[0].Type)
	s.Equal("APPROVED", events[0].Decision)
	s.Equal(created.ID.String(), events[0].Details["approval_id"])
}

func (s *ApprovalServiceSuite) TestResolveUnknownIDIsNotFound() {
	_, err := s.service.Resolve(s.ctx, id.NewApprovalID(), StatusDenied)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ApprovalServiceSuite) TestResolutionCanBeOverwritten() {
	created, err := s.service.Create(s.ctx, s.snapshot())
	s.Require().NoError(err)

	_, err = s.service.Resolve(s.ctx, created.ID, StatusApproved)
	s.Require().NoError(err)

	// A second resolution flips the status; resolution is not single-use.
	resolved, err := s.service.Resolve(s.ctx, created.ID, StatusDenied)
	s.Require().NoError(err)
	s.Equal(StatusDenied, resolved.Status)

	events, err := s.auditStore.List(s.ctx)
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *ApprovalServiceSuite) TestParseDecisionRejectsPending() {
	_, err := ParseDecision("PENDING")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = ParseDecision("approved")
	s.Error(err)

	decision, err := ParseDecision("APPROVED")
	s.Require().NoError(err)
	s.Equal(StatusApproved, decision)
}
