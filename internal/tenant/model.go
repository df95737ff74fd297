package tenant

import (
	"time"

	"github.com/google/uuid"
)

// GroupStatus is the operational state of a clinic group. A suspended group
// keeps its data but its members cannot log in.
type GroupStatus string

const (
	GroupActive    GroupStatus = "ACTIVE"
	GroupSuspended GroupStatus = "SUSPENDED"
)

// Group is an isolated clinic whose records are invisible to other groups.
type Group struct {
	ID          uuid.UUID
	Name        string
	Status      GroupStatus
	SuspendedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g Group) Tenant() uuid.UUID { return g.ID }
