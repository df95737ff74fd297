package api

import (
	"errors"
	"net/http"

	"github.com/vistacare/clinic-api/internal/account"
	"github.com/vistacare/clinic-api/internal/auth"
	"github.com/vistacare/clinic-api/internal/catalog"
	"github.com/vistacare/clinic-api/internal/patient"
	redisclient "github.com/vistacare/clinic-api/internal/redis"
	"github.com/vistacare/clinic-api/internal/scheduling"
	"github.com/vistacare/clinic-api/internal/tenant"
)

// handleServiceError maps domain errors onto HTTP responses. Validation
// failures stay 4xx with enough detail to correct the request; anything
// unknown is a 500.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrBlockNotFound):
		writeError(w, http.StatusNotFound, "block_not_found", err.Error())
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, scheduling.ErrAttentionTypeNotFound):
		writeError(w, http.StatusNotFound, "attention_type_not_found", err.Error())
	case errors.Is(err, scheduling.ErrDayMismatch):
		writeError(w, http.StatusUnprocessableEntity, "day_mismatch", err.Error())
	case errors.Is(err, scheduling.ErrOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, "out_of_range", err.Error())
	case errors.Is(err, scheduling.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", err.Error())
	case errors.Is(err, scheduling.ErrDuplicateBlock):
		writeError(w, http.StatusConflict, "duplicate_block", err.Error())
	case errors.Is(err, scheduling.ErrInvalidBlock):
		writeError(w, http.StatusBadRequest, "invalid_block", err.Error())
	case errors.Is(err, scheduling.ErrBlockBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "block_being_booked", "block is currently being booked, please retry shortly")

	case errors.Is(err, tenant.ErrTenantRequired):
		writeError(w, http.StatusBadRequest, "tenant_required", err.Error())
	case errors.Is(err, tenant.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, tenant.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "group_not_found", err.Error())
	case errors.Is(err, tenant.ErrDuplicateGroup):
		writeError(w, http.StatusConflict, "duplicate_group", err.Error())
	case errors.Is(err, tenant.ErrInvalidGroup):
		writeError(w, http.StatusBadRequest, "invalid_group", err.Error())

	case errors.Is(err, account.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, account.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate_email", err.Error())
	case errors.Is(err, account.ErrBadCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "bad_credentials", err.Error())
	case errors.Is(err, account.ErrGroupSuspended):
		writeError(w, http.StatusForbidden, "group_suspended", err.Error())
	case errors.Is(err, account.ErrPasswordRequired), errors.Is(err, account.ErrInvalidUser):
		writeError(w, http.StatusBadRequest, "invalid_user", err.Error())

	case errors.Is(err, catalog.ErrSpecialtyNotFound):
		writeError(w, http.StatusNotFound, "specialty_not_found", err.Error())
	case errors.Is(err, catalog.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, catalog.ErrDuplicateSpecialty):
		writeError(w, http.StatusConflict, "duplicate_specialty", err.Error())
	case errors.Is(err, catalog.ErrDuplicateLicense):
		writeError(w, http.StatusConflict, "duplicate_license", err.Error())
	case errors.Is(err, catalog.ErrDoctorExists):
		writeError(w, http.StatusConflict, "doctor_exists", err.Error())
	case errors.Is(err, catalog.ErrInvalidSpecialty):
		writeError(w, http.StatusBadRequest, "invalid_specialty", err.Error())

	case errors.Is(err, patient.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, patient.ErrPathologyNotFound):
		writeError(w, http.StatusNotFound, "pathology_not_found", err.Error())
	case errors.Is(err, patient.ErrDuplicateRecord):
		writeError(w, http.StatusConflict, "duplicate_record_number", err.Error())
	case errors.Is(err, patient.ErrDuplicatePathology):
		writeError(w, http.StatusConflict, "duplicate_pathology", err.Error())
	case errors.Is(err, patient.ErrTreatmentNotFound):
		writeError(w, http.StatusNotFound, "treatment_not_found", err.Error())
	case errors.Is(err, patient.ErrDuplicateTreatment):
		writeError(w, http.StatusConflict, "duplicate_treatment", err.Error())
	case errors.Is(err, patient.ErrInvalidPatient), errors.Is(err, patient.ErrInvalidPathology),
		errors.Is(err, patient.ErrInvalidTreatment), errors.Is(err, patient.ErrInvalidExam):
		writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
