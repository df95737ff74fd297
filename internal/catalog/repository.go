package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/tenant"
)

var (
	ErrSpecialtyNotFound  = errors.New("specialty not found")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDuplicateSpecialty = errors.New("a specialty with that name already exists")
	ErrDuplicateLicense   = errors.New("a doctor with that license number already exists")
	ErrDoctorExists       = errors.New("the user already has a doctor profile")
	ErrInvalidSpecialty   = errors.New("invalid specialty")
)

// Repository contains all DB interactions needed by the catalog service.
type Repository interface {
	CreateSpecialty(ctx context.Context, name string) (*Specialty, error)
	ListSpecialties(ctx context.Context) ([]Specialty, error)

	CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	GetDoctorByUserID(ctx context.Context, scope tenant.Scope, userID uuid.UUID) (*Doctor, error)
	ListDoctors(ctx context.Context, scope tenant.Scope) ([]Doctor, error)
	UpdateDoctor(ctx context.Context, scope tenant.Scope, d Doctor) (*Doctor, error)
}
