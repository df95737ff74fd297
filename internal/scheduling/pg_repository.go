package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistacare/clinic-api/internal/clock"
	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanBlock(row pgx.Row) (*AvailabilityBlock, error) {
	var b AvailabilityBlock
	var day string
	var startMin, endMin int

	err := row.Scan(
		&b.ID,
		&b.DoctorID,
		&day,
		&startMin,
		&endMin,
		&b.SlotMinutes,
		&b.MaxPerBlock,
		&b.AttentionTypeID,
		&b.Status,
		&b.TenantID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}

	b.Day, err = clock.ParseWeekday(day)
	if err != nil {
		return nil, fmt.Errorf("stored block %s: %w", b.ID, err)
	}
	b.Start = clock.TimeOfDay(startMin)
	b.End = clock.TimeOfDay(endMin)
	return &b, nil
}

func scanAttentionType(row pgx.Row) (*AttentionType, error) {
	var t AttentionType

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Status,
		&t.TenantID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttentionTypeNotFound
		}
		return nil, err
	}

	return &t, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var startMin, endMin int

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.BlockID,
		&a.Date,
		&startMin,
		&endMin,
		&a.Status,
		&a.Notes,
		&a.CancelReason,
		&a.TenantID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Start = clock.TimeOfDay(startMin)
	a.End = clock.TimeOfDay(endMin)
	return &a, nil
}

// Interface methods

func (r *PgRepository) CreateBlock(ctx context.Context, b AvailabilityBlock) (*AvailabilityBlock, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO availability_blocks
			(id, doctor_id, day, start_min, end_min, slot_minutes, max_per_block,
			 attention_type_id, status, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', $9, now(), now())
		RETURNING id, doctor_id, day, start_min, end_min, slot_minutes, max_per_block,
		          attention_type_id, status, tenant_id, created_at, updated_at
	`, id, b.DoctorID, string(b.Day), b.Start.Minutes(), b.End.Minutes(),
		b.SlotMinutes, b.MaxPerBlock, b.AttentionTypeID, b.TenantID)

	created, err := scanBlock(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateBlock
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetBlockByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*AvailabilityBlock, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, day, start_min, end_min, slot_minutes, max_per_block,
		       attention_type_id, status, tenant_id, created_at, updated_at
		FROM availability_blocks
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, id, scope.Arg())
	return scanBlock(row)
}

func (r *PgRepository) ListBlocks(ctx context.Context, scope tenant.Scope, doctorID *uuid.UUID) ([]AvailabilityBlock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, day, start_min, end_min, slot_minutes, max_per_block,
		       attention_type_id, status, tenant_id, created_at, updated_at
		FROM availability_blocks
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		  AND ($2::uuid IS NULL OR doctor_id = $2)
		ORDER BY doctor_id, day, start_min
	`, scope.Arg(), doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AvailabilityBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) SetBlockStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*AvailabilityBlock, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE availability_blocks
		SET status = $3,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		RETURNING id, doctor_id, day, start_min, end_min, slot_minutes, max_per_block,
		          attention_type_id, status, tenant_id, created_at, updated_at
	`, id, scope.Arg(), st)
	return scanBlock(row)
}

func (r *PgRepository) CreateAttentionType(ctx context.Context, t AttentionType) (*AttentionType, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO attention_types (id, name, description, status, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, 'active', $4, now(), now())
		RETURNING id, name, description, status, tenant_id, created_at, updated_at
	`, id, t.Name, t.Description, t.TenantID)
	return scanAttentionType(row)
}

func (r *PgRepository) ListAttentionTypes(ctx context.Context, scope tenant.Scope) ([]AttentionType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, status, tenant_id, created_at, updated_at
		FROM attention_types
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		ORDER BY name
	`, scope.Arg())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AttentionType
	for rows.Next() {
		t, err := scanAttentionType(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) SetAttentionTypeStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*AttentionType, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE attention_types
		SET status = $3,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		RETURNING id, name, description, status, tenant_id, created_at, updated_at
	`, id, scope.Arg(), st)
	return scanAttentionType(row)
}

func (r *PgRepository) ActiveIntervals(ctx context.Context, blockID uuid.UUID, date time.Time) ([]Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_min, end_min
		FROM appointments
		WHERE block_id = $1
		  AND date = $2
		  AND status = 'active'
		ORDER BY start_min
	`, blockID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Interval
	for rows.Next() {
		var startMin, endMin int
		if err := rows.Scan(&startMin, &endMin); err != nil {
			return nil, err
		}
		result = append(result, Interval{
			Start: clock.TimeOfDay(startMin),
			End:   clock.TimeOfDay(endMin),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// InsertAppointmentIfFree serializes competing bookings on the block row:
// the SELECT ... FOR UPDATE makes concurrent transactions for the same
// block queue up, so the overlap re-check always sees committed state and
// at most one of two overlapping submissions can win.
func (r *PgRepository) InsertAppointmentIfFree(ctx context.Context, a Appointment) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var blockID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM availability_blocks WHERE id = $1 FOR UPDATE
	`, a.BlockID).Scan(&blockID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}

	var conflicts int
	err = tx.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments
		WHERE block_id = $1
		  AND date = $2
		  AND status = 'active'
		  AND start_min < $4
		  AND end_min > $3
	`, a.BlockID, a.Date, a.Start.Minutes(), a.End.Minutes()).Scan(&conflicts)
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ErrSlotConflict
	}

	id := uuid.New()
	row := tx.QueryRow(ctx, `
		INSERT INTO appointments
			(id, patient_id, block_id, date, start_min, end_min, status, notes,
			 cancel_reason, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'active', $7, '', $8, now(), now())
		RETURNING id, patient_id, block_id, date, start_min, end_min, status, notes,
		          cancel_reason, tenant_id, created_at, updated_at
	`, id, a.PatientID, a.BlockID, a.Date, a.Start.Minutes(), a.End.Minutes(), a.Notes, a.TenantID)

	created, err := scanAppointment(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}

	return created, nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, block_id, date, start_min, end_min, status, notes,
		       cancel_reason, tenant_id, created_at, updated_at
		FROM appointments
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, id, scope.Arg())
	return scanAppointment(row)
}

func (r *PgRepository) ListAppointments(ctx context.Context, scope tenant.Scope, f AppointmentFilter, limit, offset int) ([]Appointment, error) {
	wanted := status.Active
	if f.Cancelled {
		wanted = status.Inactive
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, block_id, date, start_min, end_min, status, notes,
		       cancel_reason, tenant_id, created_at, updated_at
		FROM appointments
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		  AND status = $2
		  AND ($3::uuid IS NULL OR block_id = $3)
		  AND ($4::uuid IS NULL OR patient_id = $4)
		  AND ($5::date IS NULL OR date = $5)
		ORDER BY date DESC, start_min
		LIMIT $6 OFFSET $7
	`, scope.Arg(), wanted, f.BlockID, f.PatientID, f.Date, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CancelAppointment(ctx context.Context, scope tenant.Scope, id uuid.UUID, reason string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'inactive',
		    cancel_reason = $3,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		  AND status = 'active'
		RETURNING id, patient_id, block_id, date, start_min, end_min, status, notes,
		          cancel_reason, tenant_id, created_at, updated_at
	`, id, scope.Arg(), reason)
	return scanAppointment(row)
}

func (r *PgRepository) RestoreAppointment(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'active',
		    cancel_reason = '',
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		  AND status = 'inactive'
		RETURNING id, patient_id, block_id, date, start_min, end_min, status, notes,
		          cancel_reason, tenant_id, created_at, updated_at
	`, id, scope.Arg())
	return scanAppointment(row)
}
