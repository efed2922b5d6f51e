package domain

import "time"

// State is the canonical workflow state of a contract. Rejections do not get
// their own states: a contract rejected during review returns to DRAFT and a
// contract rejected during signature returns to PENDING_REVIEW, in both cases
// carrying RejectionReason and RejectedAt until the next forward transition.
type State string

const (
	StateDraft            State = "DRAFT"
	StatePendingReview    State = "PENDING_REVIEW"
	StatePendingSignature State = "PENDING_SIGNATURE"
	StateCompleted        State = "COMPLETED"
)

var validStates = map[State]bool{
	StateDraft:            true,
	StatePendingReview:    true,
	StatePendingSignature: true,
	StateCompleted:        true,
}

func (s State) IsValid() bool { return validStates[s] }

// IsTerminal reports whether the state has no outgoing edges.
func (s State) IsTerminal() bool { return s == StateCompleted }

func (s State) String() string { return string(s) }

// Action is one custodianship hand-off a caller can request.
type Action string

const (
	ActionSubmitForReview  Action = "SUBMIT_FOR_REVIEW"
	ActionApprove          Action = "APPROVE"
	ActionRejectByReviewer Action = "REJECT_BY_REVIEWER"
	ActionSign             Action = "SIGN"
	ActionRejectBySigner   Action = "REJECT_BY_SIGNER"
	ActionResetToDraft     Action = "RESET_TO_DRAFT"
)

func (a Action) String() string { return string(a) }

// Role is a directory role held by an identity.
type Role string

const (
	RoleLegal  Role = "LEGAL"
	RoleViewer Role = "VIEWER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

var validRoles = map[Role]bool{
	RoleLegal:  true,
	RoleViewer: true,
	RoleAdmin:  true,
	RoleMember: true,
}

func (r Role) IsValid() bool { return validRoles[r] }

// Actor is an already-authenticated identity with its resolved directory
// role. Authentication happens upstream; the engine only resolves the role.
type Actor struct {
	ID   string `json:"actor_id"`
	Role Role   `json:"role,omitempty"`
}

// Contract is the entity under workflow control. It is mutated only through
// the engine's transition operations; Version increments on every successful
// transition and anchors the conditional write.
type Contract struct {
	ContractID      string `json:"contract_id"`
	Title           string `json:"title,omitempty"`
	State           State  `json:"state"`
	CreatedBy       string `json:"created_by"`
	LegalReviewerID string `json:"legal_reviewer_id,omitempty"`
	ViewerID        string `json:"viewer_id,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`

	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	SentForSignatureAt *time.Time `json:"sent_for_signature_at,omitempty"`
	SignedAt           *time.Time `json:"signed_at,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expectation pins a conditional write to the state and version observed at
// load time. A write whose expectation no longer matches the stored row lost
// the race and must surface CONFLICT, never overwrite.
type Expectation struct {
	State   State
	Version int64
}
