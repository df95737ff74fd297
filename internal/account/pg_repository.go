package account

import (
	"context"
	"errors"
	"time"

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

const userColumns = `id, name, email, password_hash, sex, birth_date, phone, address,
	role, status, tenant_id, registered_at, last_login_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var role string
	var birthDate *time.Time
	var phone, address *string
	var lastLogin *time.Time

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Sex,
		&birthDate,
		&phone,
		&address,
		&role,
		&u.Status,
		&u.TenantID,
		&u.RegisteredAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	u.Role = tenant.Role(role)
	u.BirthDate = birthDate
	u.Phone = phone
	u.Address = address
	u.LastLoginAt = lastLogin
	return &u, nil
}

func (r *PgRepository) CreateUser(ctx context.Context, u User) (*User, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users
			(id, name, email, password_hash, sex, birth_date, phone, address,
			 role, status, tenant_id, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10, now())
		RETURNING `+userColumns+`
	`, id, u.Name, u.Email, u.PasswordHash, u.Sex, u.BirthDate, u.Phone, u.Address,
		string(u.Role), u.TenantID)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetUserByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, id, scope.Arg())
	return scanUser(row)
}

func (r *PgRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *PgRepository) ListUsers(ctx context.Context, scope tenant.Scope, role *tenant.Role) ([]User, error) {
	var roleArg *string
	if role != nil {
		s := string(*role)
		roleArg = &s
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		  AND ($2::text IS NULL OR role = $2)
		ORDER BY registered_at DESC
	`, scope.Arg(), roleArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateUser(ctx context.Context, scope tenant.Scope, u User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $3,
		    sex = $4,
		    birth_date = $5,
		    phone = $6,
		    address = $7,
		    role = $8,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		RETURNING `+userColumns+`
	`, u.ID, scope.Arg(), u.Name, u.Sex, u.BirthDate, u.Phone, u.Address, string(u.Role))
	return scanUser(row)
}

func (r *PgRepository) SetUserStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET status = $3,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		RETURNING `+userColumns+`
	`, id, scope.Arg(), st)
	return scanUser(row)
}

func (r *PgRepository) SetPasswordHash(ctx context.Context, scope tenant.Scope, id uuid.UUID, hash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $3,
		    updated_at = now()
		WHERE id = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
	`, id, scope.Arg(), hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET last_login_at = now() WHERE id = $1
	`, id)
	return err
}
