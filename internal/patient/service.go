package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

type Service struct {
	repo Repository
	sink *audit.Sink
}

func NewService(repo Repository, sink *audit.Sink) *Service {
	return &Service{repo: repo, sink: sink}
}

// CreatePathology adds a condition to the clinic's catalog.
func (s *Service) CreatePathology(ctx context.Context, p tenant.Principal, path Pathology, explicitTenant *uuid.UUID) (*Pathology, error) {
	path.Name = strings.TrimSpace(path.Name)
	if path.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPathology)
	}
	if _, ok := ParseSeverity(string(path.Severity)); !ok {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidPathology, path.Severity)
	}

	tenantID, err := tenant.Stamp(p, explicitTenant)
	if err != nil {
		return nil, err
	}
	path.TenantID = tenantID

	created, err := s.repo.CreatePathology(ctx, path)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Created pathology %s (%s)", created.Name, created.Severity),
		Object:   fmt.Sprintf("Pathology: %s (id:%s)", created.Name, created.ID),
		TenantID: &created.TenantID,
	})

	return created, nil
}

func (s *Service) ListPathologies(ctx context.Context, p tenant.Principal) ([]Pathology, error) {
	paths, err := s.repo.ListPathologies(ctx, tenant.ResolveScope(p))
	if err != nil {
		return nil, fmt.Errorf("list pathologies: %w", err)
	}
	return paths, nil
}

func (s *Service) DeactivatePathology(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Pathology, error) {
	return s.repo.SetPathologyStatus(ctx, tenant.ResolveScope(p), id, status.Active.Deactivate())
}

func (s *Service) ReactivatePathology(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Pathology, error) {
	return s.repo.SetPathologyStatus(ctx, tenant.ResolveScope(p), id, status.Inactive.Reactivate())
}

// CreateTreatment adds a treatment to the clinic's catalog.
func (s *Service) CreateTreatment(ctx context.Context, p tenant.Principal, t Treatment, explicitTenant *uuid.UUID) (*Treatment, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTreatment)
	}
	if t.DurationDays != nil && *t.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration must be a positive number of days", ErrInvalidTreatment)
	}

	tenantID, err := tenant.Stamp(p, explicitTenant)
	if err != nil {
		return nil, err
	}
	t.TenantID = tenantID

	created, err := s.repo.CreateTreatment(ctx, t)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Created treatment %s", created.Name),
		Object:   fmt.Sprintf("Treatment: %s (id:%s)", created.Name, created.ID),
		TenantID: &created.TenantID,
	})

	return created, nil
}

func (s *Service) GetTreatment(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Treatment, error) {
	return s.repo.GetTreatmentByID(ctx, tenant.ResolveScope(p), id)
}

func (s *Service) ListTreatments(ctx context.Context, p tenant.Principal) ([]Treatment, error) {
	treatments, err := s.repo.ListTreatments(ctx, tenant.ResolveScope(p))
	if err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	return treatments, nil
}

func (s *Service) UpdateTreatment(ctx context.Context, p tenant.Principal, t Treatment) (*Treatment, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTreatment)
	}
	if t.DurationDays != nil && *t.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration must be a positive number of days", ErrInvalidTreatment)
	}

	updated, err := s.repo.UpdateTreatment(ctx, tenant.ResolveScope(p), t)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Updated treatment %s", updated.Name),
		Object:   fmt.Sprintf("Treatment: %s (id:%s)", updated.Name, updated.ID),
		TenantID: &updated.TenantID,
	})

	return updated, nil
}

// RegisterPatient opens a clinical record for a PATIENT account.
func (s *Service) RegisterPatient(ctx context.Context, p tenant.Principal, pat Patient, explicitTenant *uuid.UUID) (*Patient, error) {
	pat.RecordNumber = strings.TrimSpace(pat.RecordNumber)
	if pat.RecordNumber == "" {
		return nil, fmt.Errorf("%w: record number is required", ErrInvalidPatient)
	}

	tenantID, err := tenant.Stamp(p, explicitTenant)
	if err != nil {
		return nil, err
	}
	pat.TenantID = tenantID

	created, err := s.repo.CreatePatient(ctx, pat)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Registered patient record %s", created.RecordNumber),
		Object:   fmt.Sprintf("Patient: %s (id:%s)", created.RecordNumber, created.ID),
		TenantID: &created.TenantID,
	})

	return created, nil
}

func (s *Service) GetPatient(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, tenant.ResolveScope(p), id)
}

func (s *Service) ListPatients(ctx context.Context, p tenant.Principal, includeInactive bool) ([]Patient, error) {
	patients, err := s.repo.ListPatients(ctx, tenant.ResolveScope(p), includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) UpdatePatient(ctx context.Context, p tenant.Principal, pat Patient) (*Patient, error) {
	updated, err := s.repo.UpdatePatient(ctx, tenant.ResolveScope(p), pat)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Updated patient record %s", updated.RecordNumber),
		Object:   fmt.Sprintf("Patient: %s (id:%s)", updated.RecordNumber, updated.ID),
		TenantID: &updated.TenantID,
	})

	return updated, nil
}

// DeactivatePatient soft-deletes a clinical record.
func (s *Service) DeactivatePatient(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Patient, error) {
	return s.setPatientStatus(ctx, p, id, status.Active.Deactivate(), "Deactivated")
}

func (s *Service) ReactivatePatient(ctx context.Context, p tenant.Principal, id uuid.UUID) (*Patient, error) {
	return s.setPatientStatus(ctx, p, id, status.Inactive.Reactivate(), "Restored")
}

// RecordExam appends a visit's measurements to a patient's exam history.
// The exam inherits the patient's group; the patient lookup doubles as the
// tenancy check.
func (s *Service) RecordExam(ctx context.Context, p tenant.Principal, e OcularExam) (*OcularExam, error) {
	if e.VisualAcuityRight == "" && e.VisualAcuityLeft == "" &&
		e.OcularPressureRight == nil && e.OcularPressureLeft == nil &&
		strings.TrimSpace(e.Diagnosis) == "" {
		return nil, fmt.Errorf("%w: an exam needs at least one measurement or a diagnosis", ErrInvalidExam)
	}

	pat, err := s.repo.GetPatientByID(ctx, tenant.ResolveScope(p), e.PatientID)
	if err != nil {
		return nil, err
	}
	e.TenantID = pat.TenantID

	created, err := s.repo.CreateExam(ctx, e)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("Recorded ocular exam for patient record %s", pat.RecordNumber),
		Object:   fmt.Sprintf("OcularExam: %s (patient:%s)", created.ID, pat.RecordNumber),
		TenantID: &created.TenantID,
	})

	return created, nil
}

func (s *Service) ListExams(ctx context.Context, p tenant.Principal, patientID uuid.UUID) ([]OcularExam, error) {
	scope := tenant.ResolveScope(p)
	if _, err := s.repo.GetPatientByID(ctx, scope, patientID); err != nil {
		return nil, err
	}

	exams, err := s.repo.ListExams(ctx, scope, patientID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

func (s *Service) setPatientStatus(ctx context.Context, p tenant.Principal, id uuid.UUID, st status.Status, verb string) (*Patient, error) {
	pat, err := s.repo.SetPatientStatus(ctx, tenant.ResolveScope(p), id, st)
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.Entry{
		ActorID:  &p.ID,
		Action:   fmt.Sprintf("%s patient record %s", verb, pat.RecordNumber),
		Object:   fmt.Sprintf("Patient: %s (id:%s)", pat.RecordNumber, pat.ID),
		TenantID: &pat.TenantID,
	})

	return pat, nil
}
