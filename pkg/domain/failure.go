package domain

import (
	"errors"
	"fmt"
)

// FailureKind tags every refusal the engine can return. All kinds except
// PERSISTENCE_UNAVAILABLE are deterministic for the same inputs.
type FailureKind string

const (
	FailureNotFound               FailureKind = "NOT_FOUND"
	FailureUnauthorized           FailureKind = "UNAUTHORIZED"
	FailureInvalidTransition      FailureKind = "INVALID_TRANSITION"
	FailureInvalidArgument        FailureKind = "INVALID_ARGUMENT"
	FailureConflict               FailureKind = "CONFLICT"
	FailurePersistenceUnavailable FailureKind = "PERSISTENCE_UNAVAILABLE"
)

// Failure is a tagged refusal with a human-readable reason. Repository and
// audit errors are never folded into authorization or validation kinds.
type Failure struct {
	Kind   FailureKind
	Reason string
}

func (f *Failure) Error() string { return fmt.Sprintf("%s: %s", f.Kind, f.Reason) }

func Failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// AsFailure unwraps err into a *Failure if one is in its chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// ErrUnknownIdentity is returned by role directory lookups for identities
// the directory does not know (or no longer resolves, e.g. deactivated).
var ErrUnknownIdentity = errors.New("identity not present in the role directory")
