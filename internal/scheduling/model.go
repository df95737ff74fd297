package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/clock"
	"github.com/vistacare/clinic-api/internal/status"
)

// AvailabilityBlock is a recurring weekly time window a doctor offers for a
// given attention type. Appointments are always booked against a block.
type AvailabilityBlock struct {
	ID              uuid.UUID
	DoctorID        uuid.UUID
	Day             clock.Weekday
	Start           clock.TimeOfDay
	End             clock.TimeOfDay
	SlotMinutes     int
	MaxPerBlock     int
	AttentionTypeID *uuid.UUID
	Status          status.Status
	TenantID        uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (b AvailabilityBlock) Tenant() uuid.UUID { return b.TenantID }

// AttentionType classifies what a block is offered for (consultation,
// control, surgery follow-up, ...).
type AttentionType struct {
	ID          uuid.UUID
	Name        string
	Description string
	Status      status.Status
	TenantID    uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t AttentionType) Tenant() uuid.UUID { return t.TenantID }

// Appointment is a booked visit on a specific date inside a block.
// Cancellation is a soft delete: status flips to inactive and the reason is
// kept; the record can be restored.
type Appointment struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	BlockID      uuid.UUID
	Date         time.Time
	Start        clock.TimeOfDay
	End          clock.TimeOfDay
	Status       status.Status
	Notes        string
	CancelReason string
	TenantID     uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Appointment) Tenant() uuid.UUID { return a.TenantID }

// Interval is a half-open [Start, End) time range within a day.
type Interval struct {
	Start clock.TimeOfDay
	End   clock.TimeOfDay
}

// Overlaps is the half-open interval test: touching intervals do not
// overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}
