package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistacare/clinic-api/internal/tenant"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)

	tenantID := uuid.New()
	p := tenant.Principal{
		ID:       uuid.New(),
		Role:     tenant.RoleDoctor,
		TenantID: &tenantID,
	}

	raw, err := issuer.Issue(p)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Role, got.Role)
	require.NotNil(t, got.TenantID)
	assert.Equal(t, tenantID, *got.TenantID)
}

func TestTokenSuperAdminHasNoTenant(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)

	raw, err := issuer.Issue(tenant.Principal{ID: uuid.New(), Role: tenant.RoleSuperAdmin})
	require.NoError(t, err)

	got, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.True(t, got.IsSuperAdmin())
	assert.Nil(t, got.TenantID)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	other := NewTokenIssuer([]byte("another-secret"), time.Hour)

	raw, err := issuer.Issue(tenant.Principal{ID: uuid.New(), Role: tenant.RoleAdmin})
	require.NoError(t, err)

	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), -time.Minute)

	raw, err := issuer.Issue(tenant.Principal{ID: uuid.New(), Role: tenant.RoleAdmin})
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "hunter2hunter2"))
}
