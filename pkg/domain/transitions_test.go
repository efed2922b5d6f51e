package domain

import (
	"testing"
	"time"
)

func draft() Contract {
	return Contract{ContractID: "ctr_1", State: StateDraft, CreatedBy: "act_u1", Version: 1}
}

func TestEdgeExistsPerState(t *testing.T) {
	cases := []struct {
		state  State
		action Action
		want   bool
	}{
		{StateDraft, ActionSubmitForReview, true},
		{StateDraft, ActionApprove, false},
		{StateDraft, ActionRejectByReviewer, false},
		{StateDraft, ActionSign, false},
		{StateDraft, ActionRejectBySigner, false},
		{StatePendingReview, ActionApprove, true},
		{StatePendingReview, ActionRejectByReviewer, true},
		{StatePendingReview, ActionSubmitForReview, false},
		{StatePendingReview, ActionSign, false},
		{StatePendingSignature, ActionSign, true},
		{StatePendingSignature, ActionRejectBySigner, true},
		{StatePendingSignature, ActionApprove, false},
		{StateCompleted, ActionSign, false},
		{StateCompleted, ActionSubmitForReview, false},
		{StateCompleted, ActionResetToDraft, false},
	}
	for _, tc := range cases {
		c := draft()
		c.State = tc.state
		if got := EdgeExists(c, tc.action); got != tc.want {
			t.Fatalf("EdgeExists(%s, %s) = %v, want %v", tc.state, tc.action, got, tc.want)
		}
	}
}

func TestResetToDraftEdgeRequiresPendingRejection(t *testing.T) {
	c := draft()
	if EdgeExists(c, ActionResetToDraft) {
		t.Fatalf("reset edge must not exist on a clean draft")
	}
	c.RejectionReason = "needs rewrite"
	if !EdgeExists(c, ActionResetToDraft) {
		t.Fatalf("reset edge must exist while a rejection is pending")
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	if !StateCompleted.IsTerminal() {
		t.Fatalf("COMPLETED must be terminal")
	}
	c := draft()
	c.State = StateCompleted
	for action := range Transitions {
		if EdgeExists(c, action) {
			t.Fatalf("terminal state has outgoing edge %s", action)
		}
	}
}

func TestApplySubmitClearsRejection(t *testing.T) {
	now := time.Now()
	c := draft()
	c.RejectionReason = "old reason"
	rejectedAt := now.Add(-time.Hour)
	c.RejectedAt = &rejectedAt

	got := Apply(c, ActionSubmitForReview, "", now)
	if got.State != StatePendingReview {
		t.Fatalf("expected PENDING_REVIEW, got %s", got.State)
	}
	if got.SubmittedAt == nil || !got.SubmittedAt.Equal(now) {
		t.Fatalf("expected submitted_at = now, got %v", got.SubmittedAt)
	}
	if got.RejectionReason != "" || got.RejectedAt != nil {
		t.Fatalf("submit must clear rejection fields, got %+v", got)
	}
}

func TestApplyApprove(t *testing.T) {
	now := time.Now()
	c := draft()
	c.State = StatePendingReview
	c.RejectionReason = "from signer"

	got := Apply(c, ActionApprove, "", now)
	if got.State != StatePendingSignature {
		t.Fatalf("expected PENDING_SIGNATURE, got %s", got.State)
	}
	if got.ReviewedAt == nil || got.SentForSignatureAt == nil {
		t.Fatalf("approve must set reviewed_at and sent_for_signature_at")
	}
	if got.RejectionReason != "" {
		t.Fatalf("forward transition must clear rejection reason")
	}
}

func TestApplyRejectByReviewer(t *testing.T) {
	now := time.Now()
	c := draft()
	c.State = StatePendingReview
	sub := now.Add(-time.Hour)
	c.SubmittedAt = &sub

	got := Apply(c, ActionRejectByReviewer, "needs legal rewrite", now)
	if got.State != StateDraft {
		t.Fatalf("expected DRAFT, got %s", got.State)
	}
	if got.RejectionReason != "needs legal rewrite" || got.RejectedAt == nil {
		t.Fatalf("rejection fields not set: %+v", got)
	}
	if got.SubmittedAt != nil || got.ReviewedAt != nil {
		t.Fatalf("reviewer rejection must clear submitted_at and reviewed_at")
	}
}

func TestApplyRejectBySigner(t *testing.T) {
	now := time.Now()
	c := draft()
	c.State = StatePendingSignature
	sent := now.Add(-time.Hour)
	c.SentForSignatureAt = &sent

	got := Apply(c, ActionRejectBySigner, "payment terms unclear", now)
	if got.State != StatePendingReview {
		t.Fatalf("expected PENDING_REVIEW, got %s", got.State)
	}
	if got.RejectionReason != "payment terms unclear" || got.RejectedAt == nil {
		t.Fatalf("rejection fields not set: %+v", got)
	}
	if got.SignedAt != nil || got.SentForSignatureAt != nil {
		t.Fatalf("signer rejection must clear signed_at and sent_for_signature_at")
	}
}

func TestApplySign(t *testing.T) {
	now := time.Now()
	c := draft()
	c.State = StatePendingSignature

	got := Apply(c, ActionSign, "", now)
	if got.State != StateCompleted {
		t.Fatalf("expected COMPLETED, got %s", got.State)
	}
	if got.SignedAt == nil || !got.SignedAt.Equal(now) {
		t.Fatalf("expected signed_at = now, got %v", got.SignedAt)
	}
}

func TestApplyResetKeepsAssignments(t *testing.T) {
	now := time.Now()
	c := draft()
	c.LegalReviewerID = "act_l1"
	c.ViewerID = "act_v1"
	c.RejectionReason = "needs rewrite"
	rejectedAt := now.Add(-time.Hour)
	c.RejectedAt = &rejectedAt

	got := Apply(c, ActionResetToDraft, "", now)
	if got.State != StateDraft {
		t.Fatalf("expected DRAFT, got %s", got.State)
	}
	if got.RejectionReason != "" || got.RejectedAt != nil {
		t.Fatalf("reset must clear rejection fields")
	}
	if got.LegalReviewerID != "act_l1" || got.ViewerID != "act_v1" {
		t.Fatalf("reset must retain assignments for resubmission")
	}
}
