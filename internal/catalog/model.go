package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Specialty is a medical specialty label. The catalog is deliberately
// global: specialties carry no group and are visible to every tenant.
type Specialty struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Doctor is the practitioner profile attached to a DOCTOR user account.
// The owning group is the account's group; the profile itself only adds
// the license number and specialties.
type Doctor struct {
	UserID        uuid.UUID
	Name          string
	LicenseNumber string
	SpecialtyIDs  []uuid.UUID
	TenantID      uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (d Doctor) Tenant() uuid.UUID { return d.TenantID }
