package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistacare/clinic-api/internal/tenant"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) CreateSpecialty(ctx context.Context, name string) (*Specialty, error) {
	id := uuid.New()

	var s Specialty
	err := r.pool.QueryRow(ctx, `
		INSERT INTO specialties (id, name, created_at)
		VALUES ($1, $2, now())
		RETURNING id, name, created_at
	`, id, name).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateSpecialty
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgRepository) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at FROM specialties ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Specialty
	for rows.Next() {
		var s Specialty
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// doctorConflict tells apart the two unique violations a doctor insert can
// raise: the primary key on user_id (profile already registered) and the
// unique license number.
func doctorConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	if pgErr.ConstraintName == "doctors_pkey" {
		return ErrDoctorExists
	}
	return ErrDuplicateLicense
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.UserID,
		&d.Name,
		&d.LicenseNumber,
		&d.SpecialtyIDs,
		&d.TenantID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

const doctorQuery = `
	SELECT d.user_id, u.name, d.license_number,
	       COALESCE(array_agg(ds.specialty_id) FILTER (WHERE ds.specialty_id IS NOT NULL), '{}'),
	       d.tenant_id, d.created_at, d.updated_at
	FROM doctors d
	JOIN users u ON u.id = d.user_id
	LEFT JOIN doctor_specialties ds ON ds.doctor_id = d.user_id
`

func (r *PgRepository) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin doctor tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO doctors (user_id, license_number, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
	`, d.UserID, d.LicenseNumber, d.TenantID)
	if err != nil {
		return nil, doctorConflict(err)
	}

	for _, specID := range d.SpecialtyIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO doctor_specialties (doctor_id, specialty_id)
			VALUES ($1, $2)
		`, d.UserID, specID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit doctor tx: %w", err)
	}

	return r.GetDoctorByUserID(ctx, tenant.AllTenants(), d.UserID)
}

func (r *PgRepository) GetDoctorByUserID(ctx context.Context, scope tenant.Scope, userID uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, doctorQuery+`
		WHERE d.user_id = $1
		  AND ($2::uuid IS NULL OR d.tenant_id = $2)
		GROUP BY d.user_id, u.name, d.license_number, d.tenant_id, d.created_at, d.updated_at
	`, userID, scope.Arg())
	return scanDoctor(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context, scope tenant.Scope) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, doctorQuery+`
		WHERE ($1::uuid IS NULL OR d.tenant_id = $1)
		GROUP BY d.user_id, u.name, d.license_number, d.tenant_id, d.created_at, d.updated_at
		ORDER BY u.name
	`, scope.Arg())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, scope tenant.Scope, d Doctor) (*Doctor, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin doctor tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE doctors
		SET license_number = $3,
		    updated_at = now()
		WHERE user_id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, d.UserID, scope.Arg(), d.LicenseNumber)
	if err != nil {
		return nil, doctorConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrDoctorNotFound
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM doctor_specialties WHERE doctor_id = $1
	`, d.UserID); err != nil {
		return nil, err
	}
	for _, specID := range d.SpecialtyIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO doctor_specialties (doctor_id, specialty_id)
			VALUES ($1, $2)
		`, d.UserID, specID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit doctor tx: %w", err)
	}

	return r.GetDoctorByUserID(ctx, scope, d.UserID)
}
