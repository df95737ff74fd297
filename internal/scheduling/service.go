package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/clock"
	redisclient "github.com/vistacare/clinic-api/internal/redis"
	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

var (
	ErrBlockBeingBooked = errors.New("block is currently being booked, please retry")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	sink   *audit.Sink
}

func NewService(repo Repository, locker redisclient.Locker, sink *audit.Sink) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		sink:   sink,
	}
}

// BookingRequest is a proposed appointment. TenantID is only honored for
// super admins, who must name the target group explicitly.
type BookingRequest struct {
	PatientID uuid.UUID
	BlockID   uuid.UUID
	Date      time.Time
	Start     clock.TimeOfDay
	End       clock.TimeOfDay
	Notes     string
	TenantID  *uuid.UUID
}

// BookAppointment validates a proposed appointment against its block and
// the active appointments already on that block/date, then persists it.
// The in-process validation is advisory; the storage layer re-checks the
// overlap under a block row lock so concurrent submissions cannot both
// win. A storage-level conflict is retried once against fresh state before
// ErrSlotConflict is surfaced.
func (s *Service) BookAppointment(ctx context.Context, p tenant.Principal, req BookingRequest) (*Appointment, error) {
	tenantID, err := tenant.Stamp(p, req.TenantID)
	if err != nil {
		return nil, err
	}
	scope := tenant.ResolveScope(p)

	block, err := s.repo.GetBlockByID(ctx, scope, req.BlockID)
	if err != nil {
		return nil, err
	}
	// A deactivated block does not accept bookings; treat it as absent.
	if !block.Status.IsActive() || block.TenantID != tenantID {
		return nil, ErrBlockNotFound
	}

	proposal := Proposal{
		BlockID: req.BlockID,
		Date:    req.Date,
		Start:   req.Start,
		End:     req.End,
	}

	if err := s.check(ctx, proposal, block); err != nil {
		return nil, err
	}

	appt := Appointment{
		PatientID: req.PatientID,
		BlockID:   req.BlockID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Notes:     req.Notes,
		TenantID:  tenantID,
	}

	var created *Appointment

	err = s.locker.WithBookingLock(ctx, req.BlockID, req.Date, func(lockCtx context.Context) error {
		c, err := s.repo.InsertAppointmentIfFree(lockCtx, appt)
		if !errors.Is(err, ErrSlotConflict) {
			created = c
			return err
		}

		// A competing booking landed between validation and insert.
		// Re-validate against fresh state: either the conflict is real
		// and the contextual error names the winning interval, or it
		// was transient and one more insert attempt is allowed.
		if checkErr := s.check(lockCtx, proposal, block); checkErr != nil {
			return checkErr
		}

		created, err = s.repo.InsertAppointmentIfFree(lockCtx, appt)
		return err
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBlockBeingBooked
		}
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Booked appointment on %s from %s to %s", created.Date.Format("2006-01-02"), created.Start, created.End),
		Object:   fmt.Sprintf("Appointment: %s (block:%s)", created.ID, created.BlockID),
		TenantID: &created.TenantID,
	})

	return created, nil
}

func (s *Service) check(ctx context.Context, proposal Proposal, block *AvailabilityBlock) error {
	existing, err := s.repo.ActiveIntervals(ctx, proposal.BlockID, proposal.Date)
	if err != nil {
		return fmt.Errorf("load existing appointments: %w", err)
	}
	return Validate(proposal, existing, block)
}

// CancelAppointment soft-deletes an appointment and records the reason.
func (s *Service) CancelAppointment(ctx context.Context, p tenant.Principal, id uuid.UUID, reason string) (*Appointment, error) {
	scope := tenant.ResolveScope(p)

	appt, err := s.repo.CancelAppointment(ctx, scope, id, reason)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Cancelled appointment of %s: %s", appt.Date.Format("2006-01-02"), reason),
		Object:   fmt.Sprintf("Appointment: %s (block:%s)", appt.ID, appt.BlockID),
		TenantID: &appt.TenantID,
	})

	return appt, nil
}

// RestoreAppointment reactivates a cancelled appointment.
func (s *Service) RestoreAppointment(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Appointment, error) {
	scope := tenant.ResolveScope(p)

	appt, err := s.repo.RestoreAppointment(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Restored appointment of %s", appt.Date.Format("2006-01-02")),
		Object:   fmt.Sprintf("Appointment: %s (block:%s)", appt.ID, appt.BlockID),
		TenantID: &appt.TenantID,
	})

	return appt, nil
}

func (s *Service) GetAppointment(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, tenant.ResolveScope(p), id)
}

func (s *Service) ListAppointments(ctx context.Context, p tenant.Principal, f AppointmentFilter, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	appts, err := s.repo.ListAppointments(ctx, tenant.ResolveScope(p), f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// BlockRequest describes a new availability block.
type BlockRequest struct {
	DoctorID        uuid.UUID
	Day             clock.Weekday
	Start           clock.TimeOfDay
	End             clock.TimeOfDay
	SlotMinutes     int
	MaxPerBlock     int
	AttentionTypeID *uuid.UUID
	TenantID        *uuid.UUID
}

// CreateBlock registers a weekly availability window for a doctor.
func (s *Service) CreateBlock(ctx context.Context, p tenant.Principal, req BlockRequest) (*AvailabilityBlock, error) {
	tenantID, err := tenant.Stamp(p, req.TenantID)
	if err != nil {
		return nil, err
	}

	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidBlock, req.Start, req.End)
	}
	if req.SlotMinutes <= 0 {
		req.SlotMinutes = 30
	}
	if req.MaxPerBlock <= 0 {
		req.MaxPerBlock = 10
	}

	block, err := s.repo.CreateBlock(ctx, AvailabilityBlock{
		DoctorID:        req.DoctorID,
		Day:             req.Day,
		Start:           req.Start,
		End:             req.End,
		SlotMinutes:     req.SlotMinutes,
		MaxPerBlock:     req.MaxPerBlock,
		AttentionTypeID: req.AttentionTypeID,
		TenantID:        tenantID,
	})
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Created %s block %s to %s for doctor %s", block.Day, block.Start, block.End, block.DoctorID),
		Object:   fmt.Sprintf("AvailabilityBlock: %s", block.ID),
		TenantID: &block.TenantID,
	})

	return block, nil
}

func (s *Service) GetBlock(ctx context.Context, p tenant.Principal, id uuid.UUID) (*AvailabilityBlock, error) {
	return s.repo.GetBlockByID(ctx, tenant.ResolveScope(p), id)
}

func (s *Service) ListBlocks(ctx context.Context, p tenant.Principal, doctorID *uuid.UUID) ([]AvailabilityBlock, error) {
	blocks, err := s.repo.ListBlocks(ctx, tenant.ResolveScope(p), doctorID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}

// DeactivateBlock soft-deletes a block; existing appointments keep their
// reference, new bookings are refused.
func (s *Service) DeactivateBlock(ctx context.Context, p tenant.Principal, id uuid.UUID) (*AvailabilityBlock, error) {
	return s.setBlockStatus(ctx, p, id, status.Active.Deactivate(), "Deactivated")
}

func (s *Service) ReactivateBlock(ctx context.Context, p tenant.Principal, id uuid.UUID) (*AvailabilityBlock, error) {
	return s.setBlockStatus(ctx, p, id, status.Inactive.Reactivate(), "Reactivated")
}

func (s *Service) setBlockStatus(ctx context.Context, p tenant.Principal, id uuid.UUID, st status.Status, verb string) (*AvailabilityBlock, error) {
	block, err := s.repo.SetBlockStatus(ctx, tenant.ResolveScope(p), id, st)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("%s block %s of doctor %s", verb, block.ID, block.DoctorID),
		Object:   fmt.Sprintf("AvailabilityBlock: %s", block.ID),
		TenantID: &block.TenantID,
	})

	return block, nil
}

// CreateAttentionType registers a new attention type in the caller's group.
func (s *Service) CreateAttentionType(ctx context.Context, p tenant.Principal, name, description string, explicitTenant *uuid.UUID) (*AttentionType, error) {
	tenantID, err := tenant.Stamp(p, explicitTenant)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.CreateAttentionType(ctx, AttentionType{
		Name:        name,
		Description: description,
		TenantID:    tenantID,
	})
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Created attention type %s", t.Name),
		Object:   fmt.Sprintf("AttentionType: %s (id:%s)", t.Name, t.ID),
		TenantID: &t.TenantID,
	})

	return t, nil
}

func (s *Service) ListAttentionTypes(ctx context.Context, p tenant.Principal) ([]AttentionType, error) {
	types, err := s.repo.ListAttentionTypes(ctx, tenant.ResolveScope(p))
	if err != nil {
		return nil, fmt.Errorf("list attention types: %w", err)
	}
	return types, nil
}

func (s *Service) SetAttentionTypeStatus(ctx context.Context, p tenant.Principal, id uuid.UUID, st status.Status) (*AttentionType, error) {
	return s.repo.SetAttentionTypeStatus(ctx, tenant.ResolveScope(p), id, st)
}
