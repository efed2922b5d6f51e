package domain

import "time"

// Requirement names who may perform an action. It is resolved against the
// contract's creator and assignment fields, not against a role alone.
type Requirement string

const (
	RequireCreatorOrAdmin   Requirement = "CREATOR_OR_ADMIN"
	RequireAssignedReviewer Requirement = "ASSIGNED_REVIEWER"
	RequireAssignedViewer   Requirement = "ASSIGNED_VIEWER"
)

// Transition is one edge of the workflow graph.
type Transition struct {
	From        State
	To          State
	Require     Requirement
	NeedsReason bool

	// EdgeOK is an extra predicate on top of the From state. Only
	// RESET_TO_DRAFT uses it: the edge exists only while a rejection is
	// pending.
	EdgeOK func(Contract) bool
}

// Transitions is the whole permission and transition matrix as data, so it
// can be audited and tested independently of the engine.
var Transitions = map[Action]Transition{
	ActionSubmitForReview: {
		From:    StateDraft,
		To:      StatePendingReview,
		Require: RequireCreatorOrAdmin,
	},
	ActionApprove: {
		From:    StatePendingReview,
		To:      StatePendingSignature,
		Require: RequireAssignedReviewer,
	},
	ActionRejectByReviewer: {
		From:        StatePendingReview,
		To:          StateDraft,
		Require:     RequireAssignedReviewer,
		NeedsReason: true,
	},
	ActionSign: {
		From:    StatePendingSignature,
		To:      StateCompleted,
		Require: RequireAssignedViewer,
	},
	ActionRejectBySigner: {
		From:        StatePendingSignature,
		To:          StatePendingReview,
		Require:     RequireAssignedViewer,
		NeedsReason: true,
	},
	ActionResetToDraft: {
		From:    StateDraft,
		To:      StateDraft,
		Require: RequireCreatorOrAdmin,
		EdgeOK:  func(c Contract) bool { return c.RejectionReason != "" },
	},
}

// EdgeExists reports whether action is a listed edge from the contract's
// current state.
func EdgeExists(c Contract, action Action) bool {
	t, ok := Transitions[action]
	if !ok || t.From != c.State {
		return false
	}
	if t.EdgeOK != nil && !t.EdgeOK(c) {
		return false
	}
	return true
}

// Apply computes the contract value after a successful transition: the new
// state, the timestamp of the transition event, and the rejection fields.
// Forward transitions clear any pending rejection. Apply does not touch
// Version; the repository bumps it on the conditional write.
func Apply(c Contract, action Action, reason string, now time.Time) Contract {
	t := Transitions[action]
	c.State = t.To
	c.UpdatedAt = now
	ts := now
	switch action {
	case ActionSubmitForReview:
		c.SubmittedAt = &ts
		c.RejectionReason = ""
		c.RejectedAt = nil
	case ActionApprove:
		c.ReviewedAt = &ts
		c.SentForSignatureAt = &ts
		c.RejectionReason = ""
		c.RejectedAt = nil
	case ActionRejectByReviewer:
		c.RejectionReason = reason
		c.RejectedAt = &ts
		c.SubmittedAt = nil
		c.ReviewedAt = nil
	case ActionSign:
		c.SignedAt = &ts
		c.RejectionReason = ""
		c.RejectedAt = nil
	case ActionRejectBySigner:
		c.RejectionReason = reason
		c.RejectedAt = &ts
		c.SignedAt = nil
		c.SentForSignatureAt = nil
	case ActionResetToDraft:
		c.RejectionReason = ""
		c.RejectedAt = nil
	}
	return c
}
