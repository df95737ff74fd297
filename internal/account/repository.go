package account

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("an account with that email already exists")
	ErrBadCredentials   = errors.New("wrong email or password")
	ErrGroupSuspended   = errors.New("your clinic does not have access to the system")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidUser      = errors.New("invalid user")
)

// Repository contains all DB interactions needed by the account service.
type Repository interface {
	CreateUser(ctx context.Context, u User) (*User, error)
	GetUserByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*User, error)
	// GetUserByEmail is unscoped: login happens before a scope exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, scope tenant.Scope, role *tenant.Role) ([]User, error)
	UpdateUser(ctx context.Context, scope tenant.Scope, u User) (*User, error)
	SetUserStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*User, error)
	SetPasswordHash(ctx context.Context, scope tenant.Scope, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}
