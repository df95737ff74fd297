package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanGroup(row pgx.Row) (*Group, error) {
	var g Group
	var suspendedAt *time.Time

	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Status,
		&suspendedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	g.SuspendedAt = suspendedAt
	return &g, nil
}

func (r *PgRepository) CreateGroup(ctx context.Context, name string) (*Group, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO groups (id, name, status, created_at, updated_at)
		VALUES ($1, $2, 'ACTIVE', now(), now())
		RETURNING id, name, status, suspended_at, created_at, updated_at
	`, id, name)

	g, err := scanGroup(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateGroup
		}
		return nil, err
	}
	return g, nil
}

func (r *PgRepository) GetGroupByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, status, suspended_at, created_at, updated_at
		FROM groups
		WHERE id = $1
	`, id)
	return scanGroup(row)
}

func (r *PgRepository) ListGroups(ctx context.Context, scope Scope) ([]Group, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, status, suspended_at, created_at, updated_at
		FROM groups
		WHERE ($1::uuid IS NULL OR id = $1)
		ORDER BY name
	`, scope.Arg())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) SetGroupStatus(ctx context.Context, id uuid.UUID, st GroupStatus, suspendedAt *time.Time) (*Group, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE groups
		SET status = $2,
		    suspended_at = $3,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, status, suspended_at, created_at, updated_at
	`, id, st, suspendedAt)

	return scanGroup(row)
}
