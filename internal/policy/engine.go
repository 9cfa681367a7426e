package policy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"worldvault/internal/approval"
	"worldvault/internal/audit"
	"worldvault/internal/platform/metrics"
	"worldvault/internal/token"
	id "worldvault/pkg/domain"
	dErrors "worldvault/pkg/domain-errors"
)

// checkState is the mutable context threaded through the gate pipeline.
// Claims are populated by the authenticity gate; approvalSatisfied is set by
// the approval resolution gate when a supplied hold has been approved.
type checkState struct {
	req               CheckRequest
	claims            *token.Claims
	approvalSatisfied bool
}

// gate is one step of the evaluation pipeline. A non-nil Decision is terminal
// and short-circuits every later gate.
type gate struct {
	name string
	run  func(ctx context.Context, st *checkState) (*Decision, error)
}

// Engine evaluates operations against consent tokens. The gate order is a
// declared contract: authenticity, revocation, scope, resource, usage limits,
// approval resolution, approval requirement, payment, allow. Revocation always
// precedes scope and limit checks, and the usage increment at the limits gate
// is unconditional, so a call that is later held or charged still consumes
// quota.
type Engine struct {
	verifier      TokenVerifier
	revocations   Revocations
	ledger        Ledger
	approvals     Approvals
	auditor       Auditor
	challenger    Challenger
	holdThreshold float64
	logger        *slog.Logger
	metrics       *metrics.Metrics
	gates         []gate
}

// NewEngine wires the decision pipeline. Cost strictly above holdThreshold
// triggers a hold even when the caller does not request approval.
func NewEngine(
	verifier TokenVerifier,
	revocations Revocations,
	ledger Ledger,
	approvals Approvals,
	auditor Auditor,
	challenger Challenger,
	holdThreshold float64,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Engine {
	e := &Engine{
		verifier:      verifier,
		revocations:   revocations,
		ledger:        ledger,
		approvals:     approvals,
		auditor:       auditor,
		challenger:    challenger,
		holdThreshold: holdThreshold,
		logger:        logger,
		metrics:       m,
	}
	e.gates = []gate{
		{name: "authenticity", run: e.gateAuthenticity},
		{name: "revocation", run: e.gateRevocation},
		{name: "scope", run: e.gateScope},
		{name: "resource", run: e.gateResource},
		{name: "limits", run: e.gateLimits},
		{name: "approval_resolution", run: e.gateApprovalResolution},
		{name: "approval_requirement", run: e.gateApprovalRequirement},
		{name: "payment", run: e.gatePayment},
		{name: "allow", run: e.gateAllow},
	}
	return e
}

// Check runs the request through the gate pipeline and appends exactly one
// audit event for the decision, whatever the outcome.
func (e *Engine) Check(ctx context.Context, req CheckRequest) (*Decision, error) {
	start := time.Now()
	st := &checkState{req: req}

	for _, g := range e.gates {
		decision, err := g.run(ctx, st)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "policy check failed at "+g.name+" gate")
		}
		if decision == nil {
			continue
		}
		e.audit(ctx, st, decision)
		if e.metrics != nil {
			e.metrics.ObserveDecision(string(decision.Outcome), decision.Reason, time.Since(start))
		}
		if e.logger != nil {
			e.logger.InfoContext(ctx, "policy check decided",
				"gate", g.name,
				"decision", decision.Outcome,
				"reason", decision.Reason,
				"scope", req.Scope,
				"resource", req.Resource,
				"tool", req.Tool,
			)
		}
		return decision, nil
	}

	// The allow gate always returns a decision; reaching here means the
	// pipeline was assembled without it.
	return nil, dErrors.New(dErrors.CodeInvariantViolation, "gate pipeline produced no decision")
}

func (e *Engine) gateAuthenticity(_ context.Context, st *checkState) (*Decision, error) {
	claims, err := e.verifier.Verify(st.req.Token)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenExpired):
			return &Decision{Outcome: OutcomeBlock, Reason: ReasonAuthExpired}, nil
		case errors.Is(err, token.ErrTokenNotYetValid):
			return &Decision{Outcome: OutcomeBlock, Reason: ReasonAuthNotYetValid}, nil
		case errors.Is(err, token.ErrTokenMalformed):
			return &Decision{Outcome: OutcomeBlock, Reason: ReasonMalformed}, nil
		default:
			return &Decision{Outcome: OutcomeBlock, Reason: ReasonAuthInvalid}, nil
		}
	}
	st.claims = claims
	return nil, nil
}

func (e *Engine) gateRevocation(ctx context.Context, st *checkState) (*Decision, error) {
	revoked, err := e.revocations.IsRevoked(ctx, st.claims.TokenID())
	if err != nil {
		return nil, err
	}
	if revoked {
		return &Decision{Outcome: OutcomeBlock, Reason: ReasonRevoked}, nil
	}
	return nil, nil
}

func (e *Engine) gateScope(_ context.Context, st *checkState) (*Decision, error) {
	if !st.claims.HasScope(st.req.Scope) {
		return &Decision{Outcome: OutcomeBlock, Reason: ReasonScopeDenied}, nil
	}
	return nil, nil
}

func (e *Engine) gateResource(_ context.Context, st *checkState) (*Decision, error) {
	if !st.claims.HasResource(st.req.Resource) {
		return &Decision{Outcome: OutcomeBlock, Reason: ReasonResourceDenied}, nil
	}
	return nil, nil
}

func (e *Engine) gateLimits(ctx context.Context, st *checkState) (*Decision, error) {
	totals, err := e.ledger.Increment(ctx, st.claims.TokenID(), st.req.Action, st.req.Bytes)
	if err != nil {
		return nil, err
	}

	// Tokens minted before a limit dimension existed, or by an issuer that
	// skipped defaulting, still get the standard caps for unset fields.
	limits := st.claims.Limits.WithDefaults()
	if totals.Bytes > int64(limits.BytesCap) {
		return &Decision{Outcome: OutcomeBlock, Reason: ReasonBytesCapExceeded}, nil
	}
	switch st.req.Action {
	case id.ActionRead:
		if totals.Reads > int64(limits.MaxReads) {
			return &Decision{Outcome: OutcomeBlock, Reason: ReasonReadLimitExceeded}, nil
		}
	case id.ActionWrite:
		if totals.Writes > int64(limits.MaxWrites) {
			return &Decision{Outcome: OutcomeBlock, Reason: ReasonWriteLimitExceeded}, nil
		}
	}
	return nil, nil
}

func (e *Engine) gateApprovalResolution(ctx context.Context, st *checkState) (*Decision, error) {
	if st.req.ApprovalID.IsZero() {
		return nil, nil
	}

	req, err := e.approvals.Lookup(ctx, st.req.ApprovalID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return &Decision{Outcome: OutcomeBlock, Reason: ReasonApprovalNotFound}, nil
		}
		return nil, err
	}

	switch req.Status {
	case approval.StatusDenied:
		return &Decision{Outcome: OutcomeBlock, Reason: ReasonApprovalDenied}, nil
	case approval.StatusPending:
		// Re-polling an unresolved hold is idempotent: same id, no new hold.
		return &Decision{Outcome: OutcomeHold, ApprovalID: req.ID}, nil
	case approval.StatusApproved:
		st.approvalSatisfied = true
	}
	return nil, nil
}

func (e *Engine) gateApprovalRequirement(ctx context.Context, st *checkState) (*Decision, error) {
	needsApproval := st.req.RequiresApproval || st.req.Cost > e.holdThreshold
	if !needsApproval || st.approvalSatisfied {
		return nil, nil
	}

	hold, err := e.approvals.Create(ctx, approval.Snapshot{
		TokenID:          st.claims.TokenID(),
		Subject:          st.claims.Subject,
		Agent:            st.claims.Agent,
		Action:           st.req.Action,
		Scope:            st.req.Scope,
		Resource:         st.req.Resource,
		Tool:             st.req.Tool,
		Cost:             st.req.Cost,
		Bytes:            st.req.Bytes,
		RequiresApproval: st.req.RequiresApproval,
		PaymentProof:     st.req.PaymentProof,
	})
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.IncrementHoldsCreated()
	}
	return &Decision{Outcome: OutcomeHold, ApprovalID: hold.ID}, nil
}

func (e *Engine) gatePayment(_ context.Context, st *checkState) (*Decision, error) {
	if st.req.Cost <= 0 || st.req.PaymentProof != "" {
		return nil, nil
	}
	challenge := e.challenger.Challenge(st.req.Tool, st.req.Cost)
	return &Decision{Outcome: OutcomePaymentRequired, Challenge: &challenge}, nil
}

func (e *Engine) gateAllow(_ context.Context, st *checkState) (*Decision, error) {
	return &Decision{
		Outcome: OutcomeAllow,
		Receipt: &Receipt{
			Tool:       st.req.Tool,
			Amount:     st.req.Cost,
			Asset:      e.challenger.Asset(),
			PaymentRef: st.req.PaymentProof,
		},
	}, nil
}

// audit records the decision. Auth failures carry whatever identity could be
// extracted, which may be nothing.
func (e *Engine) audit(ctx context.Context, st *checkState, decision *Decision) {
	event := audit.Event{
		Type:     audit.EventPolicyCheck,
		Scope:    st.req.Scope,
		Resource: st.req.Resource,
		Decision: string(decision.Outcome),
		Cost:     st.req.Cost,
		Details: map[string]any{
			"action": st.req.Action.String(),
			"tool":   st.req.Tool,
		},
	}
	if st.claims != nil {
		event.Subject = st.claims.Subject
		event.Agent = st.claims.Agent
		event.TokenID = st.claims.TokenID()
	}
	if decision.Reason != "" {
		event.Details["reason"] = decision.Reason
	}
	if !decision.ApprovalID.IsZero() {
		event.Details["approval_id"] = decision.ApprovalID.String()
	}
	if decision.Receipt != nil {
		event.PaymentRef = decision.Receipt.PaymentRef
	}
	// The decision stands even if the audit line is lost; log and move on.
	if err := e.auditor.Emit(ctx, event); err != nil && e.logger != nil {
		e.logger.WarnContext(ctx, "audit emit failed", "error", err.Error())
	}
}
