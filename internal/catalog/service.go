package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/tenant"
)

type Service struct {
	repo Repository
	sink *audit.Sink
}

func NewService(repo Repository, sink *audit.Sink) *Service {
	return &Service{repo: repo, sink: sink}
}

// CreateSpecialty adds a name to the global specialty catalog.
func (s *Service) CreateSpecialty(ctx context.Context, p tenant.Principal, name string) (*Specialty, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSpecialty)
	}

	spec, err := s.repo.CreateSpecialty(ctx, name)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID: &p.ID,
		Action:  fmt.Sprintf("Created specialty %s", spec.Name),
		Object:  fmt.Sprintf("Specialty: %s (id:%s)", spec.Name, spec.ID),
	})

	return spec, nil
}

// ListSpecialties is unscoped: the catalog has no tenant field and is
// visible to every group.
func (s *Service) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	specs, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specs, nil
}

// RegisterDoctor attaches a practitioner profile to an existing DOCTOR
// account. The profile inherits the account's group.
func (s *Service) RegisterDoctor(ctx context.Context, p tenant.Principal, d Doctor) (*Doctor, error) {
	tenantID, err := tenant.Stamp(p, optionalTenant(d.TenantID))
	if err != nil {
		return nil, err
	}
	d.TenantID = tenantID

	created, err := s.repo.CreateDoctor(ctx, d)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Registered doctor %s (license %s)", created.Name, created.LicenseNumber),
		Object:   fmt.Sprintf("Doctor: %s (id:%s)", created.Name, created.UserID),
		TenantID: &created.TenantID,
	})

	return created, nil
}

func (s *Service) GetDoctor(ctx context.Context, p tenant.Principal, userID uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByUserID(ctx, tenant.ResolveScope(p), userID)
}

func (s *Service) ListDoctors(ctx context.Context, p tenant.Principal) ([]Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx, tenant.ResolveScope(p))
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, p tenant.Principal, d Doctor) (*Doctor, error) {
	updated, err := s.repo.UpdateDoctor(ctx, tenant.ResolveScope(p), d)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Updated doctor %s (id:%s)", updated.Name, updated.UserID),
		Object:   fmt.Sprintf("Doctor: %s (id:%s)", updated.Name, updated.UserID),
		TenantID: &updated.TenantID,
	})

	return updated, nil
}

func optionalTenant(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
