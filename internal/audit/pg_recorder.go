package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRecorder struct {
	pool *pgxpool.Pool
}

func NewPgRecorder(pool *pgxpool.Pool) *PgRecorder {
	return &PgRecorder{pool: pool}
}

func (r *PgRecorder) Record(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (actor_id, action, object, ip, extra, tenant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
	`, e.ActorID, e.Action, e.Object, e.IP, e.Extra, e.TenantID, nullableTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry

	err := row.Scan(
		&e.ID,
		&e.ActorID,
		&e.Action,
		&e.Object,
		&e.IP,
		&e.Extra,
		&e.TenantID,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// List returns entries newest first. The tenant argument follows the
// ($1 IS NULL OR tenant_id = $1) scoping convention; entries without a
// tenant (registration, super-admin actions) only surface under the
// all-tenant scope.
func (r *PgRecorder) List(ctx context.Context, tenantArg *uuid.UUID, f ListFilter, limit, offset int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.actor_id, a.action, a.object, a.ip, a.extra, a.tenant_id, a.created_at
		FROM audit_log a
		LEFT JOIN users u ON u.id = a.actor_id
		WHERE ($1::uuid IS NULL OR a.tenant_id = $1)
		  AND ($2::timestamptz IS NULL OR a.created_at >= $2)
		  AND ($3::timestamptz IS NULL OR a.created_at <= $3)
		  AND ($4::uuid IS NULL OR a.actor_id = $4)
		  AND ($5::text = '' OR u.name ILIKE '%' || $5 || '%')
		ORDER BY a.created_at DESC
		LIMIT $6 OFFSET $7
	`, tenantArg, f.Start, f.End, f.ActorID, f.ActorName, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteOlderThan prunes entries past the retention window. Used by the
// retention worker.
func (r *PgRecorder) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM audit_log WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit entries: %w", err)
	}

	return tag.RowsAffected(), nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
