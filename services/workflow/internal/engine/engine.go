package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/assignment"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/audit"
)

// Repository is the persistence boundary. Every write is conditional on the
// state and version observed at load time; a losing writer gets CONFLICT,
// never a silent overwrite. The engine does not retry conflicts — reloading
// and re-deciding is the caller's job.
type Repository interface {
	Load(ctx context.Context, contractID string) (domain.Contract, error)
	ConditionalUpdate(ctx context.Context, contractID string, expected domain.Expectation, c domain.Contract) (domain.Contract, error)
}

// AuditSink receives one entry per transition attempt. Implementations must
// not block the transition path.
type AuditSink interface {
	Record(e audit.Entry)
}

// Engine is the workflow state machine. All contract mutation goes through
// its six operations; each is a single load, one conditional write, and one
// audit record, with no suspension in between.
type Engine struct {
	repo     Repository
	registry *assignment.Registry
	sink     AuditSink
	now      func() time.Time
}

func New(repo Repository, registry *assignment.Registry, sink AuditSink) *Engine {
	return &Engine{repo: repo, registry: registry, sink: sink, now: time.Now}
}

// SubmitForReview moves a draft into review, binding the legal reviewer and
// viewer assignments after validating them against the role directory.
func (e *Engine) SubmitForReview(ctx context.Context, contractID, actorID, legalReviewerID, viewerID string) (domain.Contract, error) {
	return e.transition(ctx, contractID, actorID, domain.ActionSubmitForReview, "",
		func(ctx context.Context, c *domain.Contract) *domain.Failure {
			if f := e.registry.ValidateAssignment(ctx, legalReviewerID, viewerID); f != nil {
				return f
			}
			c.LegalReviewerID = legalReviewerID
			c.ViewerID = viewerID
			return nil
		})
}

// Approve moves a contract from review to signature. Only the assigned
// legal reviewer may call it.
func (e *Engine) Approve(ctx context.Context, contractID, actorID string) (domain.Contract, error) {
	return e.transition(ctx, contractID, actorID, domain.ActionApprove, "", nil)
}

// RejectByReviewer returns a contract under review to draft with a reason.
func (e *Engine) RejectByReviewer(ctx context.Context, contractID, actorID, reason string) (domain.Contract, error) {
	return e.transition(ctx, contractID, actorID, domain.ActionRejectByReviewer, reason, nil)
}

// Sign completes the contract. Only the assigned viewer may call it;
// COMPLETED is terminal.
func (e *Engine) Sign(ctx context.Context, contractID, actorID string) (domain.Contract, error) {
	return e.transition(ctx, contractID, actorID, domain.ActionSign, "", nil)
}

// RejectBySigner returns a contract awaiting signature to review with a
// reason.
func (e *Engine) RejectBySigner(ctx context.Context, contractID, actorID, reason string) (domain.Contract, error) {
	return e.transition(ctx, contractID, actorID, domain.ActionRejectBySigner, reason, nil)
}

// ResetToDraft clears a pending reviewer rejection so the creator can rework
// the draft. Assignments are retained for resubmission.
func (e *Engine) ResetToDraft(ctx context.Context, contractID, actorID string) (domain.Contract, error) {
	return e.transition(ctx, contractID, actorID, domain.ActionResetToDraft, "", nil)
}

// precondition runs after the guard and may bind fields on the candidate
// contract value. Returning a failure refuses the transition.
type precondition func(ctx context.Context, c *domain.Contract) *domain.Failure

func (e *Engine) transition(ctx context.Context, contractID, actorID string, action domain.Action, reason string, pre precondition) (domain.Contract, error) {
	now := e.now()
	reason = strings.TrimSpace(reason)
	actor := domain.Actor{ID: actorID}
	switch role, err := e.registry.ResolveRole(ctx, actorID); {
	case err == nil:
		actor.Role = role
	case errors.Is(err, domain.ErrUnknownIdentity):
		// Not fatal: identity-matched requirements (creator, assignee)
		// still authorize, and everything else is refused with a precise
		// kind below.
	default:
		// A directory outage is an availability problem, not an
		// authorization decision.
		f := domain.Failf(domain.FailurePersistenceUnavailable,
			"role directory lookup failed: %v", err)
		e.record(actor, action, contractID, "", "", reason, f, now)
		return domain.Contract{}, f
	}

	c, err := e.repo.Load(ctx, contractID)
	if err != nil {
		f := asFailure(err)
		e.record(actor, action, contractID, "", "", reason, f, now)
		return domain.Contract{}, f
	}
	prior := c.State

	if !domain.EdgeExists(c, action) {
		f := domain.Failf(domain.FailureInvalidTransition,
			"action %s is not valid from state %s", action, prior)
		e.record(actor, action, contractID, prior, "", reason, f, now)
		return domain.Contract{}, f
	}
	if !domain.Authorize(actor, c, action) {
		f := domain.Failf(domain.FailureUnauthorized,
			"actor %s may not perform %s on contract %s", actorID, action, contractID)
		e.record(actor, action, contractID, prior, "", reason, f, now)
		return domain.Contract{}, f
	}
	if domain.Transitions[action].NeedsReason && reason == "" {
		f := domain.Failf(domain.FailureInvalidArgument,
			"a non-empty reason is required for %s", action)
		e.record(actor, action, contractID, prior, "", reason, f, now)
		return domain.Contract{}, f
	}

	next := c
	if pre != nil {
		if f := pre(ctx, &next); f != nil {
			e.record(actor, action, contractID, prior, "", reason, f, now)
			return domain.Contract{}, f
		}
	}
	next = domain.Apply(next, action, reason, now)

	updated, err := e.repo.ConditionalUpdate(ctx, contractID,
		domain.Expectation{State: prior, Version: c.Version}, next)
	if err != nil {
		f := asFailure(err)
		e.record(actor, action, contractID, prior, "", reason, f, now)
		return domain.Contract{}, f
	}

	e.record(actor, action, contractID, prior, updated.State, reason, nil, now)
	return updated, nil
}

func (e *Engine) record(actor domain.Actor, action domain.Action, contractID string, prior, result domain.State, reason string, f *domain.Failure, at time.Time) {
	entry := audit.Entry{
		EntryID:     "aud_" + uuid.NewString(),
		ContractID:  contractID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      action,
		PriorState:  prior,
		ResultState: result,
		Outcome:     audit.OutcomeOK,
		Reason:      reason,
		OccurredAt:  at,
	}
	if f != nil {
		entry.Outcome = string(f.Kind)
		entry.Reason = f.Reason
	}
	e.sink.Record(entry)
}

func asFailure(err error) *domain.Failure {
	if f, ok := domain.AsFailure(err); ok {
		return f
	}
	return domain.Failf(domain.FailurePersistenceUnavailable, "%v", err)
}
