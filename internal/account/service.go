package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/auth"
	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

// GroupLookup is the slice of the tenant repository the login flow needs
// to refuse members of a suspended clinic.
type GroupLookup interface {
	GetGroupByID(ctx context.Context, id uuid.UUID) (*tenant.Group, error)
}

type Service struct {
	repo       Repository
	groups     GroupLookup
	issuer     *auth.TokenIssuer
	sink       *audit.Sink
	bcryptCost int
}

func NewService(repo Repository, groups GroupLookup, issuer *auth.TokenIssuer, sink *audit.Sink, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		groups:     groups,
		issuer:     issuer,
		sink:       sink,
		bcryptCost: bcryptCost,
	}
}

// UserRequest carries the writable account fields.
type UserRequest struct {
	Name      string
	Email     string
	Password  string
	Sex       string
	BirthDate *time.Time
	Phone     *string
	Address   *string
	Role      tenant.Role
	TenantID  *uuid.UUID
}

// CreateUser registers an account inside the acting principal's group.
// Only a super admin may mint another super admin, and super admin
// accounts are created unbound from any group.
func (s *Service) CreateUser(ctx context.Context, p tenant.Principal, req UserRequest) (*User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidUser)
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if _, ok := tenant.ParseRole(string(req.Role)); !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, req.Role)
	}
	if req.Role == tenant.RoleSuperAdmin && !p.IsSuperAdmin() {
		return nil, tenant.ErrUnauthorized
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Sex:          req.Sex,
		BirthDate:    req.BirthDate,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         req.Role,
	}

	if req.Role == tenant.RoleSuperAdmin {
		u.TenantID = nil
	} else {
		tenantID, err := tenant.Stamp(p, req.TenantID)
		if err != nil {
			return nil, err
		}
		u.TenantID = &tenantID
	}

	created, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Created user %s (id:%s)", created.Name, created.ID),
		Object:   fmt.Sprintf("User: %s (id:%s)", created.Name, created.ID),
		TenantID: created.TenantID,
	})

	return created, nil
}

// Login checks credentials and issues a bearer token. Members of a
// suspended clinic are refused; super admins always get in.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrBadCredentials
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}
	if !u.Status.IsActive() {
		return "", nil, ErrBadCredentials
	}

	if u.Role != tenant.RoleSuperAdmin && u.TenantID != nil {
		g, err := s.groups.GetGroupByID(ctx, *u.TenantID)
		if err != nil {
			return "", nil, fmt.Errorf("load group: %w", err)
		}
		if g.Status == tenant.GroupSuspended {
			return "", nil, ErrGroupSuspended
		}
	}

	token, err := s.issuer.Issue(u.Principal())
	if err != nil {
		return "", nil, err
	}

	if err := s.repo.TouchLastLogin(ctx, u.ID); err != nil {
		return "", nil, fmt.Errorf("touch last login: %w", err)
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &u.ID,
		Action:   fmt.Sprintf("User %s logged in", u.Name),
		Object:   fmt.Sprintf("User: %s (id:%s)", u.Name, u.ID),
		TenantID: u.TenantID,
	})

	return token, u, nil
}

// ChangePassword replaces the password of a user inside the caller's scope.
func (s *Service) ChangePassword(ctx context.Context, p tenant.Principal, userID uuid.UUID, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.SetPasswordHash(ctx, tenant.ResolveScope(p), userID, hash); err != nil {
		return err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Changed password of user %s", userID),
		Object:   fmt.Sprintf("User: (id:%s)", userID),
		TenantID: p.TenantID,
	})

	return nil
}

func (s *Service) GetUser(ctx context.Context, p tenant.Principal, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, tenant.ResolveScope(p), id)
}

func (s *Service) ListUsers(ctx context.Context, p tenant.Principal, role *tenant.Role) ([]User, error) {
	users, err := s.repo.ListUsers(ctx, tenant.ResolveScope(p), role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) UpdateUser(ctx context.Context, p tenant.Principal, u User) (*User, error) {
	updated, err := s.repo.UpdateUser(ctx, tenant.ResolveScope(p), u)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Updated user %s (id:%s)", updated.Name, updated.ID),
		Object:   fmt.Sprintf("User: %s (id:%s)", updated.Name, updated.ID),
		TenantID: updated.TenantID,
	})

	return updated, nil
}

// DeactivateUser soft-deletes an account.
func (s *Service) DeactivateUser(ctx context.Context, p tenant.Principal, id uuid.UUID) (*User, error) {
	return s.setUserStatus(ctx, p, id, status.Active.Deactivate(), "Deactivated")
}

func (s *Service) ReactivateUser(ctx context.Context, p tenant.Principal, id uuid.UUID) (*User, error) {
	return s.setUserStatus(ctx, p, id, status.Inactive.Reactivate(), "Reactivated")
}

func (s *Service) setUserStatus(ctx context.Context, p tenant.Principal, id uuid.UUID, st status.Status, verb string) (*User, error) {
	u, err := s.repo.SetUserStatus(ctx, tenant.ResolveScope(p), id, st)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("%s user %s (id:%s)", verb, u.Name, u.ID),
		Object:   fmt.Sprintf("User: %s (id:%s)", u.Name, u.ID),
		TenantID: u.TenantID,
	})

	return u, nil
}
