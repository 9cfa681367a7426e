package approval

import (
	"context"
	"errors"
	"time"

	"worldvault/internal/audit"
	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
	"worldvault/pkg/platform/sentinel"
)

// Service manages human-in-the-loop holds. It keeps queue orchestration out
// of the decision engine and owns the audit trail for resolutions.
type Service struct {
	store   Store
	auditor *audit.Publisher
	now     func() time.Time
}

func NewService(store Store, auditor *audit.Publisher) *Service {
	return &Service{store: store, auditor: auditor, now: time.Now}
}

// Create mints a fresh hold in PENDING state and returns its unguessable id.
func (s *Service) Create(ctx context.Context, snapshot Snapshot) (*Request, error) {
	req := &Request{
		ID:        id.NewApprovalID(),
		Status:    StatusPending,
		Snapshot:  snapshot,
		CreatedAt: s.now(),
	}
	if err := s.store.Save(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create approval request")
	}
	return req, nil
}

// Lookup returns the hold for the given id.
//
// Errors: CodeNotFound when no hold exists under the id.
func (s *Service) Lookup(ctx context.Context, approvalID id.ApprovalID) (*Request, error) {
	req, err := s.store.Get(ctx, approvalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "approval_not_found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load approval request")
	}
	return req, nil
}

// Resolve overwrites the hold's status with the given terminal decision and
// emits an approval_decision audit event. Resolution is intentionally
// unauthenticated and repeatable: any caller may resolve any id, any number
// of times. The unguessable id is the only access control; see DESIGN.md
// before adding a capability check or a one-time transition guard.
func (s *Service) Resolve(ctx context.Context, approvalID id.ApprovalID, decision Status) (*Request, error) {
	req, err := s.Lookup(ctx, approvalID)
	if err != nil {
		return nil, err
	}

	resolvedAt := s.now()
	req.Status = decision
	req.ResolvedAt = &resolvedAt
	if err := s.store.Save(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve approval request")
	}

	// The resolution itself succeeded; a lost audit line must not undo it.
	_ = s.auditor.Emit(ctx, audit.Event{
		Type:       audit.EventApprovalDecision,
		Subject:    req.Snapshot.Subject,
		Agent:      req.Snapshot.Agent,
		TokenID:    req.Snapshot.TokenID,
		Scope:      req.Snapshot.Scope,
		Resource:   req.Snapshot.Resource,
		Decision:   string(decision),
		Cost:       req.Snapshot.Cost,
		PaymentRef: req.Snapshot.PaymentProof,
		Details:    map[string]any{"approval_id": approvalID.String()},
	})

	return req, nil
}
