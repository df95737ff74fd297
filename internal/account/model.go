package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

// User is a system account: patient, doctor, admin, receptionist or super
// admin. Super admins carry no group and are exempt from tenant scoping.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Sex          string
	BirthDate    *time.Time
	Phone        *string
	Address      *string
	Role         tenant.Role
	Status       status.Status
	TenantID     *uuid.UUID
	RegisteredAt time.Time
	LastLoginAt  *time.Time
}

// Tenant reports the owning group; uuid.Nil for unbound accounts.
func (u User) Tenant() uuid.UUID {
	if u.TenantID == nil {
		return uuid.Nil
	}
	return *u.TenantID
}

// Principal shapes the account for explicit passing into services.
func (u User) Principal() tenant.Principal {
	return tenant.Principal{
		ID:       u.ID,
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}
