package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

// Store is the contract repository. The state machine is the only writer;
// every update is conditional on the state and version observed at load
// time, so racing writers lose with CONFLICT instead of overwriting.
type Store struct{ DB *pgxpool.Pool }

func New(db *pgxpool.Pool) *Store { return &Store{DB: db} }

const contractColumns = `contract_id,title,state,created_by,legal_reviewer_id,viewer_id,rejection_reason,
submitted_at,reviewed_at,sent_for_signature_at,signed_at,rejected_at,version,created_at,updated_at`

func (s *Store) Create(ctx context.Context, c domain.Contract) error {
	_, err := s.DB.Exec(ctx, `INSERT INTO contracts(contract_id,title,state,created_by,version,created_at,updated_at)
VALUES($1,$2,$3,$4,$5,$6,$7)`,
		c.ContractID, nullIfEmpty(c.Title), string(c.State), c.CreatedBy, c.Version, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return domain.Failf(domain.FailurePersistenceUnavailable, "create contract: %v", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (domain.Contract, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE contract_id=$1`, id)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contract{}, domain.Failf(domain.FailureNotFound, "contract %s not found", id)
		}
		return domain.Contract{}, domain.Failf(domain.FailurePersistenceUnavailable, "load contract: %v", err)
	}
	return c, nil
}

// ConditionalUpdate writes the full mutable field set in one statement
// guarded by the expected state and version, bumping the version in the same
// write. Zero matched rows means either a lost race or a missing contract;
// the two are distinguished so callers get a precise failure kind.
func (s *Store) ConditionalUpdate(ctx context.Context, id string, expected domain.Expectation, c domain.Contract) (domain.Contract, error) {
	row := s.DB.QueryRow(ctx, `
UPDATE contracts SET
  state=$1, legal_reviewer_id=$2, viewer_id=$3, rejection_reason=$4,
  submitted_at=$5, reviewed_at=$6, sent_for_signature_at=$7, signed_at=$8, rejected_at=$9,
  version=version+1, updated_at=$10
WHERE contract_id=$11 AND state=$12 AND version=$13
RETURNING `+contractColumns,
		string(c.State), nullIfEmpty(c.LegalReviewerID), nullIfEmpty(c.ViewerID), nullIfEmpty(c.RejectionReason),
		c.SubmittedAt, c.ReviewedAt, c.SentForSignatureAt, c.SignedAt, c.RejectedAt, c.UpdatedAt,
		id, string(expected.State), expected.Version)
	updated, err := scanContract(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Contract{}, domain.Failf(domain.FailurePersistenceUnavailable, "update contract: %v", err)
	}

	var one int
	err = s.DB.QueryRow(ctx, `SELECT 1 FROM contracts WHERE contract_id=$1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contract{}, domain.Failf(domain.FailureNotFound, "contract %s not found", id)
	}
	if err != nil {
		return domain.Contract{}, domain.Failf(domain.FailurePersistenceUnavailable, "update contract: %v", err)
	}
	return domain.Contract{}, domain.Failf(domain.FailureConflict, "contract %s changed since it was loaded", id)
}

func scanContract(row pgx.Row) (domain.Contract, error) {
	var c domain.Contract
	var state string
	var title, legal, viewer, reason *string
	err := row.Scan(&c.ContractID, &title, &state, &c.CreatedBy, &legal, &viewer, &reason,
		&c.SubmittedAt, &c.ReviewedAt, &c.SentForSignatureAt, &c.SignedAt, &c.RejectedAt,
		&c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Contract{}, err
	}
	c.State = domain.State(state)
	c.Title = deref(title)
	c.LegalReviewerID = deref(legal)
	c.ViewerID = deref(viewer)
	c.RejectionReason = deref(reason)
	return c, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
