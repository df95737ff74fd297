package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/status"
)

// Severity grades a pathology.
type Severity string

const (
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
	SeverityCritical Severity = "CRITICAL"
)

func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityCritical:
		return Severity(s), true
	}
	return "", false
}

// Pathology is a per-clinic catalog entry of known conditions.
type Pathology struct {
	ID          uuid.UUID
	Name        string
	Alias       string
	Description string
	Severity    Severity
	Status      status.Status
	TenantID    uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Pathology) Tenant() uuid.UUID { return p.TenantID }

// Patient is the clinical record attached to a PATIENT user account. The
// ophthalmic fields mirror the paper chart: visual acuity ("20/20") and
// intraocular pressure per eye.
type Patient struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	RecordNumber        string
	PathologyIDs        []uuid.UUID
	VisualAcuityRight   string
	VisualAcuityLeft    string
	OcularPressureRight *float64
	OcularPressureLeft  *float64
	Status              status.Status
	TenantID            uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p Patient) Tenant() uuid.UUID { return p.TenantID }

// Treatment is a per-clinic catalog entry of prescribable treatments and
// medications, optionally tied to the pathologies it addresses.
type Treatment struct {
	ID           uuid.UUID
	Name         string
	Description  string
	DurationDays *int
	PathologyIDs []uuid.UUID
	TenantID     uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Treatment) Tenant() uuid.UUID { return t.TenantID }

// OcularExam is one visit's measurements and diagnosis. The per-eye fields
// on Patient are the intake baseline; exams keep the per-visit history.
type OcularExam struct {
	ID                  uuid.UUID
	PatientID           uuid.UUID
	VisualAcuityRight   string
	VisualAcuityLeft    string
	OcularPressureRight *float64
	OcularPressureLeft  *float64
	Diagnosis           string
	TenantID            uuid.UUID
	CreatedAt           time.Time
}

func (e OcularExam) Tenant() uuid.UUID { return e.TenantID }
