package account

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/auth"
	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

type fakeRepo struct {
	Repository

	usersByEmail map[string]*User
	created      []User
	lastLogin    []uuid.UUID
}

func (f *fakeRepo) CreateUser(ctx context.Context, u User) (*User, error) {
	if _, exists := f.usersByEmail[u.Email]; exists {
		return nil, ErrDuplicateEmail
	}
	u.ID = uuid.New()
	u.Status = status.Active
	u.RegisteredAt = time.Now()
	f.created = append(f.created, u)
	return &u, nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.usersByEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	f.lastLogin = append(f.lastLogin, id)
	return nil
}

type fakeGroups struct {
	groups map[uuid.UUID]*tenant.Group
}

func (f *fakeGroups) GetGroupByID(ctx context.Context, id uuid.UUID) (*tenant.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, tenant.ErrGroupNotFound
	}
	return g, nil
}

func newTestService(repo *fakeRepo, groups *fakeGroups) *Service {
	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	sink := audit.NewSink(nil, zerolog.Nop())
	// MinCost keeps the bcrypt calls in tests fast.
	return NewService(repo, groups, issuer, sink, 4)
}

func seedUser(t *testing.T, repo *fakeRepo, email, password string, role tenant.Role, tenantID *uuid.UUID) *User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)

	u := &User{
		ID:           uuid.New(),
		Name:         "Seeded User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status.Active,
		TenantID:     tenantID,
	}
	if repo.usersByEmail == nil {
		repo.usersByEmail = map[string]*User{}
	}
	repo.usersByEmail[email] = u
	return u
}

func activeGroup(id uuid.UUID) *tenant.Group {
	return &tenant.Group{ID: id, Name: "Clinic", Status: tenant.GroupActive}
}

func suspendedGroup(id uuid.UUID) *tenant.Group {
	now := time.Now()
	return &tenant.Group{ID: id, Name: "Clinic", Status: tenant.GroupSuspended, SuspendedAt: &now}
}

func TestLoginSuccess(t *testing.T) {
	groupID := uuid.New()
	repo := &fakeRepo{}
	u := seedUser(t, repo, "doc@clinic.dev", "secret-pass", tenant.RoleDoctor, &groupID)
	svc := newTestService(repo, &fakeGroups{groups: map[uuid.UUID]*tenant.Group{groupID: activeGroup(groupID)}})

	token, got, err := svc.Login(context.Background(), "doc@clinic.dev", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []uuid.UUID{u.ID}, repo.lastLogin)
}

func TestLoginNormalizesEmail(t *testing.T) {
	groupID := uuid.New()
	repo := &fakeRepo{}
	seedUser(t, repo, "doc@clinic.dev", "secret-pass", tenant.RoleDoctor, &groupID)
	svc := newTestService(repo, &fakeGroups{groups: map[uuid.UUID]*tenant.Group{groupID: activeGroup(groupID)}})

	_, _, err := svc.Login(context.Background(), "  Doc@Clinic.DEV ", "secret-pass")
	assert.NoError(t, err)
}

func TestLoginBadCredentials(t *testing.T) {
	groupID := uuid.New()
	repo := &fakeRepo{}
	seedUser(t, repo, "doc@clinic.dev", "secret-pass", tenant.RoleDoctor, &groupID)
	svc := newTestService(repo, &fakeGroups{groups: map[uuid.UUID]*tenant.Group{groupID: activeGroup(groupID)}})

	cases := []struct{ email, password string }{
		{"doc@clinic.dev", "wrong"},
		{"nobody@clinic.dev", "secret-pass"},
		{"", "secret-pass"},
		{"doc@clinic.dev", ""},
	}
	for _, c := range cases {
		_, _, err := svc.Login(context.Background(), c.email, c.password)
		assert.ErrorIs(t, err, ErrBadCredentials)
	}
	assert.Empty(t, repo.lastLogin)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	groupID := uuid.New()
	repo := &fakeRepo{}
	u := seedUser(t, repo, "doc@clinic.dev", "secret-pass", tenant.RoleDoctor, &groupID)
	u.Status = status.Inactive
	svc := newTestService(repo, &fakeGroups{groups: map[uuid.UUID]*tenant.Group{groupID: activeGroup(groupID)}})

	// A soft-deleted account reads as bad credentials, not as a distinct
	// state an attacker could probe for.
	_, _, err := svc.Login(context.Background(), "doc@clinic.dev", "secret-pass")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginSuspendedGroupRefused(t *testing.T) {
	groupID := uuid.New()
	repo := &fakeRepo{}
	seedUser(t, repo, "doc@clinic.dev", "secret-pass", tenant.RoleDoctor, &groupID)
	svc := newTestService(repo, &fakeGroups{groups: map[uuid.UUID]*tenant.Group{groupID: suspendedGroup(groupID)}})

	_, _, err := svc.Login(context.Background(), "doc@clinic.dev", "secret-pass")
	assert.ErrorIs(t, err, ErrGroupSuspended)
}

func TestLoginSuperAdminBypassesGroupCheck(t *testing.T) {
	repo := &fakeRepo{}
	seedUser(t, repo, "root@vistacare.dev", "secret-pass", tenant.RoleSuperAdmin, nil)
	svc := newTestService(repo, &fakeGroups{})

	token, _, err := svc.Login(context.Background(), "root@vistacare.dev", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestCreateUserStampsCallerGroup(t *testing.T) {
	groupID := uuid.New()
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeGroups{})

	admin := tenant.Principal{ID: uuid.New(), Role: tenant.RoleAdmin, TenantID: &groupID}

	u, err := svc.CreateUser(context.Background(), admin, UserRequest{
		Name:     "New Doctor",
		Email:    "NEW@Clinic.dev",
		Password: "secret-pass",
		Role:     tenant.RoleDoctor,
	})
	require.NoError(t, err)

	assert.Equal(t, "new@clinic.dev", u.Email)
	require.NotNil(t, u.TenantID)
	assert.Equal(t, groupID, *u.TenantID)
	assert.NotEqual(t, "secret-pass", u.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	groupID := uuid.New()
	svc := newTestService(&fakeRepo{}, &fakeGroups{})
	admin := tenant.Principal{ID: uuid.New(), Role: tenant.RoleAdmin, TenantID: &groupID}

	_, err := svc.CreateUser(context.Background(), admin, UserRequest{
		Email: "x@y.dev", Password: "p", Role: tenant.RoleDoctor,
	})
	assert.ErrorIs(t, err, ErrInvalidUser, "missing name")

	_, err = svc.CreateUser(context.Background(), admin, UserRequest{
		Name: "X", Email: "x@y.dev", Role: tenant.RoleDoctor,
	})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = svc.CreateUser(context.Background(), admin, UserRequest{
		Name: "X", Email: "x@y.dev", Password: "p", Role: "JANITOR",
	})
	assert.ErrorIs(t, err, ErrInvalidUser, "unknown role")
}

func TestCreateUserOnlySuperAdminMintsSuperAdmin(t *testing.T) {
	groupID := uuid.New()
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeGroups{})

	admin := tenant.Principal{ID: uuid.New(), Role: tenant.RoleAdmin, TenantID: &groupID}
	_, err := svc.CreateUser(context.Background(), admin, UserRequest{
		Name: "X", Email: "x@y.dev", Password: "p", Role: tenant.RoleSuperAdmin,
	})
	assert.ErrorIs(t, err, tenant.ErrUnauthorized)

	super := tenant.Principal{ID: uuid.New(), Role: tenant.RoleSuperAdmin}
	u, err := svc.CreateUser(context.Background(), super, UserRequest{
		Name: "X", Email: "x@y.dev", Password: "p", Role: tenant.RoleSuperAdmin,
	})
	require.NoError(t, err)
	assert.Nil(t, u.TenantID, "super admins are unbound from any group")
}
