package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
	"github.com/Ramjayanth123/contracts-4-sub001/services/workflow/internal/audit"
)

// AuditLog is the append-only log store behind the audit recorder. Rows are
// inserted once and never updated or deleted.
type AuditLog struct{ DB *pgxpool.Pool }

func NewAuditLog(db *pgxpool.Pool) *AuditLog { return &AuditLog{DB: db} }

func (l *AuditLog) Append(ctx context.Context, e audit.Entry) error {
	_, err := l.DB.Exec(ctx, `
INSERT INTO audit_entries(entry_id,contract_id,actor_id,actor_role,action,prior_state,result_state,outcome,reason,occurred_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.EntryID, e.ContractID, e.ActorID, nullIfEmpty(string(e.ActorRole)), string(e.Action),
		nullIfEmpty(string(e.PriorState)), nullIfEmpty(string(e.ResultState)), e.Outcome,
		nullIfEmpty(e.Reason), e.OccurredAt)
	return err
}

func (l *AuditLog) List(ctx context.Context, contractID string) ([]audit.Entry, error) {
	rows, err := l.DB.Query(ctx, `
SELECT entry_id,contract_id,actor_id,actor_role,action,prior_state,result_state,outcome,reason,occurred_at
FROM audit_entries WHERE contract_id=$1 ORDER BY occurred_at ASC, entry_id ASC`, contractID)
	if err != nil {
		return nil, domain.Failf(domain.FailurePersistenceUnavailable, "list audit entries: %v", err)
	}
	defer rows.Close()
	var out []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var action string
		var role, prior, result, reason *string
		var at time.Time
		if err := rows.Scan(&e.EntryID, &e.ContractID, &e.ActorID, &role, &action,
			&prior, &result, &e.Outcome, &reason, &at); err != nil {
			return nil, domain.Failf(domain.FailurePersistenceUnavailable, "list audit entries: %v", err)
		}
		e.Action = domain.Action(action)
		e.ActorRole = domain.Role(deref(role))
		e.PriorState = domain.State(deref(prior))
		e.ResultState = domain.State(deref(result))
		e.Reason = deref(reason)
		e.OccurredAt = at
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Failf(domain.FailurePersistenceUnavailable, "list audit entries: %v", err)
	}
	return out, nil
}
