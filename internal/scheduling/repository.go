package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

var (
	ErrBlockNotFound         = errors.New("availability block not found")
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrAttentionTypeNotFound = errors.New("attention type not found")
	ErrDuplicateBlock        = errors.New("the doctor already has an identical block")
	ErrInvalidBlock          = errors.New("invalid availability block")
)

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	BlockID   *uuid.UUID
	PatientID *uuid.UUID
	Date      *time.Time
	// Cancelled selects soft-deleted appointments instead of active ones.
	Cancelled bool
}

// Repository contains all DB interactions needed by the scheduling service.
type Repository interface {
	CreateBlock(ctx context.Context, b AvailabilityBlock) (*AvailabilityBlock, error)
	GetBlockByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*AvailabilityBlock, error)
	ListBlocks(ctx context.Context, scope tenant.Scope, doctorID *uuid.UUID) ([]AvailabilityBlock, error)
	SetBlockStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*AvailabilityBlock, error)

	CreateAttentionType(ctx context.Context, t AttentionType) (*AttentionType, error)
	ListAttentionTypes(ctx context.Context, scope tenant.Scope) ([]AttentionType, error)
	SetAttentionTypeStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*AttentionType, error)

	// ActiveIntervals returns the [start, end) ranges of active
	// appointments for a block on a date; the conflict check runs over
	// these only.
	ActiveIntervals(ctx context.Context, blockID uuid.UUID, date time.Time) ([]Interval, error)

	// InsertAppointmentIfFree atomically re-checks overlap against active
	// appointments on the same block and date and inserts the record.
	// It returns ErrSlotConflict when a competing booking won. At most
	// one of two overlapping concurrent submissions may succeed.
	InsertAppointmentIfFree(ctx context.Context, a Appointment) (*Appointment, error)

	GetAppointmentByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Appointment, error)
	ListAppointments(ctx context.Context, scope tenant.Scope, f AppointmentFilter, limit, offset int) ([]Appointment, error)
	CancelAppointment(ctx context.Context, scope tenant.Scope, id uuid.UUID, reason string) (*Appointment, error)
	RestoreAppointment(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Appointment, error)
}
