package domain

// Authorize reports whether the actor may perform action against the
// contract in its current state. Pure and I/O-free: the actor arrives with
// its role already resolved, and the permission matrix is the transition
// table itself.
func Authorize(actor Actor, c Contract, action Action) bool {
	t, ok := Transitions[action]
	if !ok || t.From != c.State {
		return false
	}
	switch t.Require {
	case RequireCreatorOrAdmin:
		return actor.ID == c.CreatedBy || actor.Role == RoleAdmin
	case RequireAssignedReviewer:
		return c.LegalReviewerID != "" && actor.ID == c.LegalReviewerID
	case RequireAssignedViewer:
		return c.ViewerID != "" && actor.ID == c.ViewerID
	}
	return false
}
