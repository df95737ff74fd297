package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistacare/clinic-api/internal/audit"
)

type fakeRepo struct {
	groups map[uuid.UUID]*Group
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{groups: map[uuid.UUID]*Group{}}
}

func (f *fakeRepo) CreateGroup(ctx context.Context, name string) (*Group, error) {
	for _, g := range f.groups {
		if g.Name == name {
			return nil, ErrDuplicateGroup
		}
	}
	g := &Group{ID: uuid.New(), Name: name, Status: GroupActive}
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeRepo) GetGroupByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

func (f *fakeRepo) ListGroups(ctx context.Context, scope Scope) ([]Group, error) {
	out := make([]Group, 0, len(f.groups))
	for _, g := range f.groups {
		if scope.Allows(g.ID) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeRepo) SetGroupStatus(ctx context.Context, id uuid.UUID, st GroupStatus, suspendedAt *time.Time) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	g.Status = st
	g.SuspendedAt = suspendedAt
	return g, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, audit.NewSink(nil, zerolog.Nop()))
}

func TestRegisterGroup(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	g, err := svc.RegisterGroup(context.Background(), "  Clinic One  ")
	require.NoError(t, err)
	assert.Equal(t, "Clinic One", g.Name)
	assert.Equal(t, GroupActive, g.Status)

	_, err = svc.RegisterGroup(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidGroup)

	_, err = svc.RegisterGroup(context.Background(), "Clinic One")
	assert.ErrorIs(t, err, ErrDuplicateGroup)
}

func TestGetGroupScoped(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	mine, err := svc.RegisterGroup(context.Background(), "Mine")
	require.NoError(t, err)
	theirs, err := svc.RegisterGroup(context.Background(), "Theirs")
	require.NoError(t, err)

	admin := member(RoleAdmin, mine.ID)

	got, err := svc.GetGroup(context.Background(), admin, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	// A record of another clinic reads as absent, not as forbidden.
	_, err = svc.GetGroup(context.Background(), admin, theirs.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	got, err = svc.GetGroup(context.Background(), superAdmin(), theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, got.ID)
}

func TestListGroupsScoped(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	mine, _ := svc.RegisterGroup(context.Background(), "Mine")
	_, _ = svc.RegisterGroup(context.Background(), "Theirs")

	got, err := svc.ListGroups(context.Background(), member(RoleReceptionist, mine.ID))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	all, err := svc.ListGroups(context.Background(), superAdmin())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSuspendGroupSuperAdminOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	g, _ := svc.RegisterGroup(context.Background(), "Clinic")

	_, err := svc.SuspendGroup(context.Background(), member(RoleAdmin, g.ID), g.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	suspended, err := svc.SuspendGroup(context.Background(), superAdmin(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, GroupSuspended, suspended.Status)
	assert.NotNil(t, suspended.SuspendedAt)

	restored, err := svc.ReactivateGroup(context.Background(), superAdmin(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, GroupActive, restored.Status)
	assert.Nil(t, restored.SuspendedAt)

	_, err = svc.ReactivateGroup(context.Background(), member(RoleAdmin, g.ID), g.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
