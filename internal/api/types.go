package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/account"
	"github.com/vistacare/clinic-api/internal/catalog"
	"github.com/vistacare/clinic-api/internal/patient"
	"github.com/vistacare/clinic-api/internal/scheduling"
	"github.com/vistacare/clinic-api/internal/tenant"
)

// Scheduling

type BookAppointmentRequest struct {
	PatientID string  `json:"patient_id"`
	BlockID   string  `json:"block_id"`
	Date      string  `json:"date"`  // 2006-01-02
	Start     string  `json:"start"` // 15:04
	End       string  `json:"end"`
	Notes     string  `json:"notes,omitempty"`
	TenantID  *string `json:"tenant_id,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patient_id"`
	BlockID      uuid.UUID `json:"block_id"`
	Date         string    `json:"date"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	TenantID     uuid.UUID `json:"tenant_id"`
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		BlockID:      a.BlockID,
		Date:         a.Date.Format("2006-01-02"),
		Start:        a.Start.String(),
		End:          a.End.String(),
		Status:       string(a.Status),
		Notes:        a.Notes,
		CancelReason: a.CancelReason,
		TenantID:     a.TenantID,
	}
}

type CreateBlockRequest struct {
	DoctorID        string  `json:"doctor_id"`
	Day             string  `json:"day"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	SlotMinutes     int     `json:"slot_minutes,omitempty"`
	MaxPerBlock     int     `json:"max_per_block,omitempty"`
	AttentionTypeID *string `json:"attention_type_id,omitempty"`
	TenantID        *string `json:"tenant_id,omitempty"`
}

type BlockResponse struct {
	ID              uuid.UUID  `json:"id"`
	DoctorID        uuid.UUID  `json:"doctor_id"`
	Day             string     `json:"day"`
	Start           string     `json:"start"`
	End             string     `json:"end"`
	SlotMinutes     int        `json:"slot_minutes"`
	MaxPerBlock     int        `json:"max_per_block"`
	AttentionTypeID *uuid.UUID `json:"attention_type_id,omitempty"`
	Status          string     `json:"status"`
	TenantID        uuid.UUID  `json:"tenant_id"`
}

func toBlockResponse(b *scheduling.AvailabilityBlock) BlockResponse {
	return BlockResponse{
		ID:              b.ID,
		DoctorID:        b.DoctorID,
		Day:             string(b.Day),
		Start:           b.Start.String(),
		End:             b.End.String(),
		SlotMinutes:     b.SlotMinutes,
		MaxPerBlock:     b.MaxPerBlock,
		AttentionTypeID: b.AttentionTypeID,
		Status:          string(b.Status),
		TenantID:        b.TenantID,
	}
}

type AttentionTypeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	TenantID    *string `json:"tenant_id,omitempty"`
}

type AttentionTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	TenantID    uuid.UUID `json:"tenant_id"`
}

func toAttentionTypeResponse(t *scheduling.AttentionType) AttentionTypeResponse {
	return AttentionTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		TenantID:    t.TenantID,
	}
}

// Accounts

type CreateUserRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Sex       string  `json:"sex,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Role      string  `json:"role"`
	TenantID  *string `json:"tenant_id,omitempty"`
}

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Sex          string     `json:"sex,omitempty"`
	BirthDate    *string    `json:"birth_date,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Address      *string    `json:"address,omitempty"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	TenantID     *uuid.UUID `json:"tenant_id,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u *account.User) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Sex:          u.Sex,
		Phone:        u.Phone,
		Address:      u.Address,
		Role:         string(u.Role),
		Status:       string(u.Status),
		TenantID:     u.TenantID,
		RegisteredAt: u.RegisteredAt,
		LastLoginAt:  u.LastLoginAt,
	}
	if u.BirthDate != nil {
		s := u.BirthDate.Format("2006-01-02")
		resp.BirthDate = &s
	}
	return resp
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string     `json:"token"`
	UserID   uuid.UUID  `json:"user_id"`
	Role     string     `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// Groups

type RegisterGroupRequest struct {
	Name string `json:"name"`
}

type GroupResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
}

func toGroupResponse(g *tenant.Group) GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Status:      string(g.Status),
		SuspendedAt: g.SuspendedAt,
	}
}

// Catalog

type SpecialtyRequest struct {
	Name string `json:"name"`
}

type SpecialtyResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DoctorRequest struct {
	UserID        string   `json:"user_id"`
	LicenseNumber string   `json:"license_number"`
	SpecialtyIDs  []string `json:"specialty_ids,omitempty"`
	TenantID      *string  `json:"tenant_id,omitempty"`
}

type DoctorResponse struct {
	UserID        uuid.UUID   `json:"user_id"`
	Name          string      `json:"name"`
	LicenseNumber string      `json:"license_number"`
	SpecialtyIDs  []uuid.UUID `json:"specialty_ids"`
	TenantID      uuid.UUID   `json:"tenant_id"`
}

func toDoctorResponse(d *catalog.Doctor) DoctorResponse {
	return DoctorResponse{
		UserID:        d.UserID,
		Name:          d.Name,
		LicenseNumber: d.LicenseNumber,
		SpecialtyIDs:  d.SpecialtyIDs,
		TenantID:      d.TenantID,
	}
}

// Patients

type PathologyRequest struct {
	Name        string  `json:"name"`
	Alias       string  `json:"alias,omitempty"`
	Description string  `json:"description,omitempty"`
	Severity    string  `json:"severity"`
	TenantID    *string `json:"tenant_id,omitempty"`
}

type PathologyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Alias       string    `json:"alias,omitempty"`
	Description string    `json:"description,omitempty"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	TenantID    uuid.UUID `json:"tenant_id"`
}

func toPathologyResponse(p *patient.Pathology) PathologyResponse {
	return PathologyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Alias:       p.Alias,
		Description: p.Description,
		Severity:    string(p.Severity),
		Status:      string(p.Status),
		TenantID:    p.TenantID,
	}
}

type TreatmentRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	PathologyIDs []string `json:"pathology_ids,omitempty"`
	TenantID     *string  `json:"tenant_id,omitempty"`
}

type TreatmentResponse struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	DurationDays *int        `json:"duration_days,omitempty"`
	PathologyIDs []uuid.UUID `json:"pathology_ids"`
	TenantID     uuid.UUID   `json:"tenant_id"`
}

func toTreatmentResponse(t *patient.Treatment) TreatmentResponse {
	return TreatmentResponse{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		DurationDays: t.DurationDays,
		PathologyIDs: t.PathologyIDs,
		TenantID:     t.TenantID,
	}
}

type ExamRequest struct {
	VisualAcuityRight   string   `json:"visual_acuity_right,omitempty"`
	VisualAcuityLeft    string   `json:"visual_acuity_left,omitempty"`
	OcularPressureRight *float64 `json:"ocular_pressure_right,omitempty"`
	OcularPressureLeft  *float64 `json:"ocular_pressure_left,omitempty"`
	Diagnosis           string   `json:"diagnosis,omitempty"`
}

type ExamResponse struct {
	ID                  uuid.UUID `json:"id"`
	PatientID           uuid.UUID `json:"patient_id"`
	VisualAcuityRight   string    `json:"visual_acuity_right,omitempty"`
	VisualAcuityLeft    string    `json:"visual_acuity_left,omitempty"`
	OcularPressureRight *float64  `json:"ocular_pressure_right,omitempty"`
	OcularPressureLeft  *float64  `json:"ocular_pressure_left,omitempty"`
	Diagnosis           string    `json:"diagnosis,omitempty"`
	TenantID            uuid.UUID `json:"tenant_id"`
	CreatedAt           time.Time `json:"created_at"`
}

func toExamResponse(e *patient.OcularExam) ExamResponse {
	return ExamResponse{
		ID:                  e.ID,
		PatientID:           e.PatientID,
		VisualAcuityRight:   e.VisualAcuityRight,
		VisualAcuityLeft:    e.VisualAcuityLeft,
		OcularPressureRight: e.OcularPressureRight,
		OcularPressureLeft:  e.OcularPressureLeft,
		Diagnosis:           e.Diagnosis,
		TenantID:            e.TenantID,
		CreatedAt:           e.CreatedAt,
	}
}

type PatientRequest struct {
	UserID              string   `json:"user_id"`
	RecordNumber        string   `json:"record_number"`
	PathologyIDs        []string `json:"pathology_ids,omitempty"`
	VisualAcuityRight   string   `json:"visual_acuity_right,omitempty"`
	VisualAcuityLeft    string   `json:"visual_acuity_left,omitempty"`
	OcularPressureRight *float64 `json:"ocular_pressure_right,omitempty"`
	OcularPressureLeft  *float64 `json:"ocular_pressure_left,omitempty"`
	TenantID            *string  `json:"tenant_id,omitempty"`
}

type PatientResponse struct {
	ID                  uuid.UUID   `json:"id"`
	UserID              uuid.UUID   `json:"user_id"`
	RecordNumber        string      `json:"record_number"`
	PathologyIDs        []uuid.UUID `json:"pathology_ids"`
	VisualAcuityRight   string      `json:"visual_acuity_right,omitempty"`
	VisualAcuityLeft    string      `json:"visual_acuity_left,omitempty"`
	OcularPressureRight *float64    `json:"ocular_pressure_right,omitempty"`
	OcularPressureLeft  *float64    `json:"ocular_pressure_left,omitempty"`
	Status              string      `json:"status"`
	TenantID            uuid.UUID   `json:"tenant_id"`
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:                  p.ID,
		UserID:              p.UserID,
		RecordNumber:        p.RecordNumber,
		PathologyIDs:        p.PathologyIDs,
		VisualAcuityRight:   p.VisualAcuityRight,
		VisualAcuityLeft:    p.VisualAcuityLeft,
		OcularPressureRight: p.OcularPressureRight,
		OcularPressureLeft:  p.OcularPressureLeft,
		Status:              string(p.Status),
		TenantID:            p.TenantID,
	}
}

// Audit

type AuditEntryResponse struct {
	ID        int64      `json:"id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Action    string     `json:"action"`
	Object    string     `json:"object,omitempty"`
	IP        *string    `json:"ip,omitempty"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
