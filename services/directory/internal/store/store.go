package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

type Store struct{ DB *pgxpool.Pool }

func New(db *pgxpool.Pool) *Store { return &Store{DB: db} }

type Actor struct {
	ActorID   string      `json:"actor_id"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

const (
	StatusActive      = "ACTIVE"
	StatusDeactivated = "DEACTIVATED"
)

// NormalizeRole maps free-form input to a directory role.
func NormalizeRole(s string) (domain.Role, bool) {
	role := domain.Role(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.IsValid()
}

func (s *Store) CreateActor(ctx context.Context, a Actor) error {
	_, err := s.DB.Exec(ctx, `INSERT INTO actors(actor_id,name,role,status,created_at) VALUES($1,$2,$3,$4,$5)`,
		a.ActorID, a.Name, string(a.Role), a.Status, a.CreatedAt)
	return err
}

func (s *Store) GetActor(ctx context.Context, id string) (Actor, error) {
	var a Actor
	var role string
	err := s.DB.QueryRow(ctx, `SELECT actor_id,name,role,status,created_at FROM actors WHERE actor_id=$1`, id).
		Scan(&a.ActorID, &a.Name, &role, &a.Status, &a.CreatedAt)
	if err != nil {
		return Actor{}, err
	}
	a.Role = domain.Role(role)
	return a, nil
}

// ResolveRole resolves an active actor to its role. Deactivated actors no
// longer resolve.
func (s *Store) ResolveRole(ctx context.Context, id string) (domain.Role, error) {
	var role string
	err := s.DB.QueryRow(ctx, `SELECT role FROM actors WHERE actor_id=$1 AND status=$2`, id, StatusActive).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrUnknownIdentity
	}
	if err != nil {
		return "", err
	}
	return domain.Role(role), nil
}

func (s *Store) ListActors(ctx context.Context, role *domain.Role) ([]Actor, error) {
	query := `SELECT actor_id,name,role,status,created_at FROM actors ORDER BY created_at ASC`
	args := []any{}
	if role != nil {
		query = `SELECT actor_id,name,role,status,created_at FROM actors WHERE role=$1 ORDER BY created_at ASC`
		args = append(args, string(*role))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Actor
	for rows.Next() {
		var a Actor
		var r string
		if err := rows.Scan(&a.ActorID, &a.Name, &r, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Role = domain.Role(r)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) DeactivateActor(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `UPDATE actors SET status=$1 WHERE actor_id=$2`, StatusDeactivated, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
