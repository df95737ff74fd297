package tenant

import "github.com/google/uuid"

// Role classifies the calling account. SUPER_ADMIN is exempt from tenant
// scoping; everything else is bound to its group.
type Role string

const (
	RolePatient      Role = "PATIENT"
	RoleDoctor       Role = "DOCTOR"
	RoleAdmin        Role = "ADMIN"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleSuperAdmin   Role = "SUPER_ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin, RoleReceptionist, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated caller. It is passed explicitly into every
// service call; nothing in this codebase reads the caller from ambient state.
type Principal struct {
	ID       uuid.UUID
	Role     Role
	TenantID *uuid.UUID
}

func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}
