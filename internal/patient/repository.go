package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrPathologyNotFound  = errors.New("pathology not found")
	ErrTreatmentNotFound  = errors.New("treatment not found")
	ErrDuplicateRecord    = errors.New("a patient with that record number already exists")
	ErrDuplicatePathology = errors.New("a pathology with that name already exists")
	ErrDuplicateTreatment = errors.New("a treatment with that name already exists")
	ErrInvalidPatient     = errors.New("invalid patient")
	ErrInvalidPathology   = errors.New("invalid pathology")
	ErrInvalidTreatment   = errors.New("invalid treatment")
	ErrInvalidExam        = errors.New("invalid exam")
)

// Repository contains all DB interactions needed by the patient service.
type Repository interface {
	CreatePathology(ctx context.Context, p Pathology) (*Pathology, error)
	ListPathologies(ctx context.Context, scope tenant.Scope) ([]Pathology, error)
	SetPathologyStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*Pathology, error)

	CreateTreatment(ctx context.Context, t Treatment) (*Treatment, error)
	GetTreatmentByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Treatment, error)
	ListTreatments(ctx context.Context, scope tenant.Scope) ([]Treatment, error)
	UpdateTreatment(ctx context.Context, scope tenant.Scope, t Treatment) (*Treatment, error)

	CreatePatient(ctx context.Context, p Patient) (*Patient, error)
	GetPatientByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Patient, error)
	ListPatients(ctx context.Context, scope tenant.Scope, includeInactive bool) ([]Patient, error)
	UpdatePatient(ctx context.Context, scope tenant.Scope, p Patient) (*Patient, error)
	SetPatientStatus(ctx context.Context, scope tenant.Scope, id uuid.UUID, st status.Status) (*Patient, error)

	CreateExam(ctx context.Context, e OcularExam) (*OcularExam, error)
	ListExams(ctx context.Context, scope tenant.Scope, patientID uuid.UUID) ([]OcularExam, error)
}
