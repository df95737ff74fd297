package tenant

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrTenantRequired is returned when a super admin creates a
	// tenant-bound record without naming a target group.
	ErrTenantRequired = errors.New("target group is required")

	// ErrUnauthorized is returned when a principal attempts an operation
	// outside its scope.
	ErrUnauthorized = errors.New("operation not permitted for this account")
)

// Scope is the visibility boundary applied to every read and write. It is
// either all groups (super admin) or a single group.
type Scope struct {
	all      bool
	tenantID uuid.UUID
}

func AllTenants() Scope {
	return Scope{all: true}
}

func SingleTenant(id uuid.UUID) Scope {
	return Scope{tenantID: id}
}

// ResolveScope computes the visibility boundary for a principal. It never
// fails: a non-super-admin principal always resolves to its own group.
func ResolveScope(p Principal) Scope {
	if p.IsSuperAdmin() {
		return AllTenants()
	}
	if p.TenantID != nil {
		return SingleTenant(*p.TenantID)
	}
	// An account without a group sees nothing it would need a group for.
	return SingleTenant(uuid.Nil)
}

func (s Scope) All() bool { return s.all }

// TenantID returns the single visible group, or false under AllTenants.
func (s Scope) TenantID() (uuid.UUID, bool) {
	if s.all {
		return uuid.Nil, false
	}
	return s.tenantID, true
}

// Arg shapes the scope for SQL queries of the form
// ($1::uuid IS NULL OR tenant_id = $1): nil means no restriction.
func (s Scope) Arg() *uuid.UUID {
	if s.all {
		return nil
	}
	id := s.tenantID
	return &id
}

// Allows reports whether a record owned by the given group is visible.
func (s Scope) Allows(tenantID uuid.UUID) bool {
	return s.all || s.tenantID == tenantID
}

// Scoped marks entity types that belong to a group. Only types declaring
// this capability participate in tenant filtering; anything else passes
// through scope application unchanged.
type Scoped interface {
	Tenant() uuid.UUID
}

// Filter applies a scope to an in-memory slice of tenant-bound records.
func Filter[T Scoped](s Scope, items []T) []T {
	if s.all {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Tenant() == s.tenantID {
			out = append(out, it)
		}
	}
	return out
}

// Stamp decides the owning group for a record being created. Regular
// principals always stamp their own group; a super admin must name an
// explicit target or the creation fails with ErrTenantRequired.
func Stamp(p Principal, explicit *uuid.UUID) (uuid.UUID, error) {
	if p.IsSuperAdmin() {
		if explicit == nil {
			return uuid.Nil, ErrTenantRequired
		}
		return *explicit, nil
	}
	if p.TenantID == nil {
		return uuid.Nil, ErrTenantRequired
	}
	return *p.TenantID, nil
}
