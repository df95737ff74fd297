package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(role Role, tenantID uuid.UUID) Principal {
	return Principal{ID: uuid.New(), Role: role, TenantID: &tenantID}
}

func superAdmin() Principal {
	return Principal{ID: uuid.New(), Role: RoleSuperAdmin}
}

func TestResolveScope(t *testing.T) {
	groupID := uuid.New()

	t.Run("super admin sees all groups", func(t *testing.T) {
		scope := ResolveScope(superAdmin())
		assert.True(t, scope.All())
		assert.Nil(t, scope.Arg())
		assert.True(t, scope.Allows(groupID))
		assert.True(t, scope.Allows(uuid.New()))
	})

	t.Run("member sees only its own group", func(t *testing.T) {
		scope := ResolveScope(member(RoleAdmin, groupID))
		assert.False(t, scope.All())

		id, ok := scope.TenantID()
		require.True(t, ok)
		assert.Equal(t, groupID, id)

		require.NotNil(t, scope.Arg())
		assert.Equal(t, groupID, *scope.Arg())

		assert.True(t, scope.Allows(groupID))
		assert.False(t, scope.Allows(uuid.New()))
	})

	t.Run("unbound member sees nothing tenant-scoped", func(t *testing.T) {
		scope := ResolveScope(Principal{ID: uuid.New(), Role: RoleDoctor})
		assert.False(t, scope.All())
		assert.False(t, scope.Allows(groupID))
	})
}

func TestStamp(t *testing.T) {
	groupID := uuid.New()
	other := uuid.New()

	t.Run("member stamps own group", func(t *testing.T) {
		id, err := Stamp(member(RoleReceptionist, groupID), nil)
		require.NoError(t, err)
		assert.Equal(t, groupID, id)
	})

	t.Run("member ignores explicit target", func(t *testing.T) {
		// Regular accounts cannot write into another group, even when
		// the request names one.
		id, err := Stamp(member(RoleReceptionist, groupID), &other)
		require.NoError(t, err)
		assert.Equal(t, groupID, id)
	})

	t.Run("super admin must name target", func(t *testing.T) {
		_, err := Stamp(superAdmin(), nil)
		assert.ErrorIs(t, err, ErrTenantRequired)
	})

	t.Run("super admin stamps explicit target", func(t *testing.T) {
		id, err := Stamp(superAdmin(), &other)
		require.NoError(t, err)
		assert.Equal(t, other, id)
	})

	t.Run("unbound member cannot create", func(t *testing.T) {
		_, err := Stamp(Principal{ID: uuid.New(), Role: RoleDoctor}, &other)
		assert.ErrorIs(t, err, ErrTenantRequired)
	})
}

type scopedRecord struct {
	name     string
	tenantID uuid.UUID
}

func (r scopedRecord) Tenant() uuid.UUID { return r.tenantID }

func TestFilter(t *testing.T) {
	mine := uuid.New()
	theirs := uuid.New()

	records := []scopedRecord{
		{name: "a", tenantID: mine},
		{name: "b", tenantID: theirs},
		{name: "c", tenantID: mine},
	}

	t.Run("single tenant keeps own records", func(t *testing.T) {
		got := Filter(SingleTenant(mine), records)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].name)
		assert.Equal(t, "c", got[1].name)
	})

	t.Run("all tenants passes everything through", func(t *testing.T) {
		got := Filter(AllTenants(), records)
		assert.Len(t, got, 3)
	})
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"PATIENT", "DOCTOR", "ADMIN", "RECEPTIONIST", "SUPER_ADMIN"} {
		role, ok := ParseRole(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, Role(raw), role)
	}

	_, ok := ParseRole("doctor")
	assert.False(t, ok, "role labels are case sensitive")
}
