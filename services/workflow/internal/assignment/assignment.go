package assignment

import (
	"context"
	"errors"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

// Directory resolves an identity to its directory role. Unknown or
// deactivated identities return domain.ErrUnknownIdentity.
type Directory interface {
	ResolveRole(ctx context.Context, identityID string) (domain.Role, error)
}

// Registry validates a proposed reviewer/viewer assignment against the role
// directory before a contract enters review.
type Registry struct {
	dir Directory

	// enforceSeparation rejects assigning the same identity to both roles
	// on one contract, which would let one person both approve and sign.
	// Off by default, matching the source system's behavior.
	enforceSeparation bool
}

func NewRegistry(dir Directory, enforceSeparation bool) *Registry {
	return &Registry{dir: dir, enforceSeparation: enforceSeparation}
}

// ResolveRole resolves the role of an acting identity.
func (r *Registry) ResolveRole(ctx context.Context, identityID string) (domain.Role, error) {
	return r.dir.ResolveRole(ctx, identityID)
}

// ValidateAssignment confirms both identities exist and hold the expected
// roles. Unresolvable or mis-roled assignees are the caller's mistake
// (INVALID_ARGUMENT); a directory outage is not (PERSISTENCE_UNAVAILABLE).
func (r *Registry) ValidateAssignment(ctx context.Context, legalReviewerID, viewerID string) *domain.Failure {
	if legalReviewerID == "" || viewerID == "" {
		return domain.Failf(domain.FailureInvalidArgument,
			"both legal_reviewer_id and viewer_id are required before review")
	}
	if r.enforceSeparation && legalReviewerID == viewerID {
		return domain.Failf(domain.FailureInvalidArgument,
			"legal reviewer and viewer must be different identities")
	}
	if f := r.requireRole(ctx, legalReviewerID, domain.RoleLegal, "legal_reviewer_id"); f != nil {
		return f
	}
	if f := r.requireRole(ctx, viewerID, domain.RoleViewer, "viewer_id"); f != nil {
		return f
	}
	return nil
}

func (r *Registry) requireRole(ctx context.Context, identityID string, want domain.Role, field string) *domain.Failure {
	role, err := r.dir.ResolveRole(ctx, identityID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownIdentity) {
			return domain.Failf(domain.FailureInvalidArgument,
				"%s %q does not resolve to a directory identity", field, identityID)
		}
		return domain.Failf(domain.FailurePersistenceUnavailable,
			"role directory lookup failed: %v", err)
	}
	if role != want {
		return domain.Failf(domain.FailureInvalidArgument,
			"%s %q holds role %s, want %s", field, identityID, role, want)
	}
	return nil
}
