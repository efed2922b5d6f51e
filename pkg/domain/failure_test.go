package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsFailureUnwraps(t *testing.T) {
	f := Failf(FailureConflict, "contract %s changed since it was loaded", "ctr_1")
	wrapped := fmt.Errorf("transition failed: %w", f)
	got, ok := AsFailure(wrapped)
	if !ok {
		t.Fatalf("expected failure in chain")
	}
	if got.Kind != FailureConflict {
		t.Fatalf("expected CONFLICT, got %s", got.Kind)
	}
}

func TestAsFailureIgnoresPlainErrors(t *testing.T) {
	if _, ok := AsFailure(errors.New("boom")); ok {
		t.Fatalf("plain error must not unwrap to a failure")
	}
}

func TestFailureError(t *testing.T) {
	f := Failf(FailureUnauthorized, "actor act_x may not perform APPROVE")
	want := "UNAUTHORIZED: actor act_x may not perform APPROVE"
	if f.Error() != want {
		t.Fatalf("got %q, want %q", f.Error(), want)
	}
}
