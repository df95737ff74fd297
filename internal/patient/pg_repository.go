package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanPathology(row pgx.Row) (*Pathology, error) {
	var p Pathology
	var severity string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Alias,
		&p.Description,
		&severity,
		&p.Status,
		&p.TenantID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPathologyNotFound
		}
		return nil, err
	}

	p.Severity = Severity(severity)
	return &p, nil
}

func (r *PgRepository) CreatePathology(ctx context.Context, p Pathology) (*Pathology, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO pathologies (id, name, alias, description, severity, status, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'active', $6, now(), now())
		RETURNING id, name, alias, description, severity, status, tenant_id, created_at, updated_at
	`, id, p.Name, p.Alias, p.Description, string(p.Severity), p.TenantID)

	created, err := scanPathology(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicatePathology
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) ListPathologies(ctx context.Context, scope tenant.Scope) ([]Pathology, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, alias, description, severity, status, tenant_id, created_at, updated_at
		FROM pathologies
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		ORDER BY name
	`, scope.Arg())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Pathology
	for rows.Next() {
		p, err := scanPathology(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) SetPathologyStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*Pathology, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE pathologies
		SET status = $3,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		RETURNING id, name, alias, description, severity, status, tenant_id, created_at, updated_at
	`, id, scope.Arg(), st)
	return scanPathology(row)
}

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.DurationDays,
		&t.PathologyIDs,
		&t.TenantID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTreatmentNotFound
		}
		return nil, err
	}

	return &t, nil
}

const treatmentQuery = `
	SELECT t.id, t.name, t.description, t.duration_days,
	       COALESCE(array_agg(tp.pathology_id) FILTER (WHERE tp.pathology_id IS NOT NULL), '{}'),
	       t.tenant_id, t.created_at, t.updated_at
	FROM treatments t
	LEFT JOIN treatment_pathologies tp ON tp.treatment_id = t.id
`

const treatmentGroupBy = `
	GROUP BY t.id, t.name, t.description, t.duration_days, t.tenant_id,
	         t.created_at, t.updated_at
`

func (r *PgRepository) CreateTreatment(ctx context.Context, t Treatment) (*Treatment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin treatment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()

	_, err = tx.Exec(ctx, `
		INSERT INTO treatments (id, name, description, duration_days, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, id, t.Name, t.Description, t.DurationDays, t.TenantID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateTreatment
		}
		return nil, err
	}

	for _, pathID := range t.PathologyIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO treatment_pathologies (treatment_id, pathology_id)
			VALUES ($1, $2)
		`, id, pathID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit treatment tx: %w", err)
	}

	return r.GetTreatmentByID(ctx, tenant.AllTenants(), id)
}

func (r *PgRepository) GetTreatmentByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Treatment, error) {
	row := r.pool.QueryRow(ctx, treatmentQuery+`
		WHERE t.id = $1
		  AND ($2::uuid IS NULL OR t.tenant_id = $2)
	`+treatmentGroupBy, id, scope.Arg())
	return scanTreatment(row)
}

func (r *PgRepository) ListTreatments(ctx context.Context, scope tenant.Scope) ([]Treatment, error) {
	rows, err := r.pool.Query(ctx, treatmentQuery+`
		WHERE ($1::uuid IS NULL OR t.tenant_id = $1)
	`+treatmentGroupBy+`
		ORDER BY t.name
	`, scope.Arg())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
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

func (r *PgRepository) UpdateTreatment(ctx context.Context, scope tenant.Scope, t Treatment) (*Treatment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin treatment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE treatments
		SET name = $3,
		    description = $4,
		    duration_days = $5,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, t.ID, scope.Arg(), t.Name, t.Description, t.DurationDays)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateTreatment
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTreatmentNotFound
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM treatment_pathologies WHERE treatment_id = $1
	`, t.ID); err != nil {
		return nil, err
	}
	for _, pathID := range t.PathologyIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO treatment_pathologies (treatment_id, pathology_id)
			VALUES ($1, $2)
		`, t.ID, pathID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit treatment tx: %w", err)
	}

	return r.GetTreatmentByID(ctx, scope, t.ID)
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.RecordNumber,
		&p.PathologyIDs,
		&p.VisualAcuityRight,
		&p.VisualAcuityLeft,
		&p.OcularPressureRight,
		&p.OcularPressureLeft,
		&p.Status,
		&p.TenantID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

const patientQuery = `
	SELECT p.id, p.user_id, p.record_number,
	       COALESCE(array_agg(pp.pathology_id) FILTER (WHERE pp.pathology_id IS NOT NULL), '{}'),
	       p.visual_acuity_right, p.visual_acuity_left,
	       p.ocular_pressure_right, p.ocular_pressure_left,
	       p.status, p.tenant_id, p.created_at, p.updated_at
	FROM patients p
	LEFT JOIN patient_pathologies pp ON pp.patient_id = p.id
`

const patientGroupBy = `
	GROUP BY p.id, p.user_id, p.record_number, p.visual_acuity_right,
	         p.visual_acuity_left, p.ocular_pressure_right, p.ocular_pressure_left,
	         p.status, p.tenant_id, p.created_at, p.updated_at
`

func (r *PgRepository) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patient tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()

	_, err = tx.Exec(ctx, `
		INSERT INTO patients
			(id, user_id, record_number, visual_acuity_right, visual_acuity_left,
			 ocular_pressure_right, ocular_pressure_left, status, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8, now(), now())
	`, id, p.UserID, p.RecordNumber, p.VisualAcuityRight, p.VisualAcuityLeft,
		p.OcularPressureRight, p.OcularPressureLeft, p.TenantID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateRecord
		}
		return nil, err
	}

	for _, pathID := range p.PathologyIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO patient_pathologies (patient_id, pathology_id)
			VALUES ($1, $2)
		`, id, pathID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patient tx: %w", err)
	}

	return r.GetPatientByID(ctx, tenant.AllTenants(), id)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, patientQuery+`
		WHERE p.id = $1
		  AND ($2::uuid IS NULL OR p.tenant_id = $2)
	`+patientGroupBy, id, scope.Arg())
	return scanPatient(row)
}

func (r *PgRepository) ListPatients(ctx context.Context, scope tenant.Scope, includeInactive bool) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, patientQuery+`
		WHERE ($1::uuid IS NULL OR p.tenant_id = $1)
		  AND ($2 OR p.status = 'active')
	`+patientGroupBy+`
		ORDER BY p.record_number
	`, scope.Arg(), includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdatePatient(ctx context.Context, scope tenant.Scope, p Patient) (*Patient, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patient tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE patients
		SET record_number = $3,
		    visual_acuity_right = $4,
		    visual_acuity_left = $5,
		    ocular_pressure_right = $6,
		    ocular_pressure_left = $7,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, p.ID, scope.Arg(), p.RecordNumber, p.VisualAcuityRight, p.VisualAcuityLeft,
		p.OcularPressureRight, p.OcularPressureLeft)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPatientNotFound
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM patient_pathologies WHERE patient_id = $1
	`, p.ID); err != nil {
		return nil, err
	}
	for _, pathID := range p.PathologyIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO patient_pathologies (patient_id, pathology_id)
			VALUES ($1, $2)
		`, p.ID, pathID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patient tx: %w", err)
	}

	return r.GetPatientByID(ctx, scope, p.ID)
}

func (r *PgRepository) SetPatientStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*Patient, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET status = $3,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, id, scope.Arg(), st)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPatientNotFound
	}

	return r.GetPatientByID(ctx, scope, id)
}

func scanExam(row pgx.Row) (*OcularExam, error) {
	var e OcularExam

	err := row.Scan(
		&e.ID,
		&e.PatientID,
		&e.VisualAcuityRight,
		&e.VisualAcuityLeft,
		&e.OcularPressureRight,
		&e.OcularPressureLeft,
		&e.Diagnosis,
		&e.TenantID,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

const examColumns = `id, patient_id, visual_acuity_right, visual_acuity_left,
	ocular_pressure_right, ocular_pressure_left, diagnosis, tenant_id, created_at`

func (r *PgRepository) CreateExam(ctx context.Context, e OcularExam) (*OcularExam, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO ocular_exams
			(id, patient_id, visual_acuity_right, visual_acuity_left,
			 ocular_pressure_right, ocular_pressure_left, diagnosis, tenant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING `+examColumns+`
	`, id, e.PatientID, e.VisualAcuityRight, e.VisualAcuityLeft,
		e.OcularPressureRight, e.OcularPressureLeft, e.Diagnosis, e.TenantID)
	return scanExam(row)
}

// ListExams returns a patient's exam history, newest first.
func (r *PgRepository) ListExams(ctx context.Context, scope tenant.Scope, patientID uuid.UUID) ([]OcularExam, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+examColumns+`
		FROM ocular_exams
		WHERE patient_id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		ORDER BY created_at DESC
	`, patientID, scope.Arg())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OcularExam
	for rows.Next() {
		e, err := scanExam(rows)
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
