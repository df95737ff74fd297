package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/patient"
)

func createPathologyHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req PathologyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		tenantID, ok := parseOptionalTenant(w, req.TenantID)
		if !ok {
			return
		}

		created, err := svc.CreatePathology(r.Context(), p, patient.Pathology{
			Name:        req.Name,
			Alias:       req.Alias,
			Description: req.Description,
			Severity:    patient.Severity(req.Severity),
		}, tenantID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPathologyResponse(created))
	}
}

func listPathologiesHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		paths, err := svc.ListPathologies(r.Context(), p)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]PathologyResponse, 0, len(paths))
		for i := range paths {
			resp = append(resp, toPathologyResponse(&paths[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func pathologyStatusHandler(svc *patient.Service, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var path *patient.Pathology
		var err error
		if activate {
			path, err = svc.ReactivatePathology(r.Context(), p, id)
		} else {
			path, err = svc.DeactivatePathology(r.Context(), p, id)
		}
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPathologyResponse(path))
	}
}

func parsePatientRequest(w http.ResponseWriter, r *http.Request) (patient.Patient, *uuid.UUID, bool) {
	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return patient.Patient{}, nil, false
	}

	var userID uuid.UUID
	if req.UserID != "" {
		var err error
		userID, err = uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
			return patient.Patient{}, nil, false
		}
	}

	pathIDs := make([]uuid.UUID, 0, len(req.PathologyIDs))
	for _, raw := range req.PathologyIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_pathology_id", "pathology_ids must be valid UUIDs")
			return patient.Patient{}, nil, false
		}
		pathIDs = append(pathIDs, id)
	}

	tenantID, ok := parseOptionalTenant(w, req.TenantID)
	if !ok {
		return patient.Patient{}, nil, false
	}

	return patient.Patient{
		UserID:              userID,
		RecordNumber:        req.RecordNumber,
		PathologyIDs:        pathIDs,
		VisualAcuityRight:   req.VisualAcuityRight,
		VisualAcuityLeft:    req.VisualAcuityLeft,
		OcularPressureRight: req.OcularPressureRight,
		OcularPressureLeft:  req.OcularPressureLeft,
	}, tenantID, true
}

func registerPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		pat, tenantID, ok := parsePatientRequest(w, r)
		if !ok {
			return
		}
		if pat.UserID == uuid.Nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
			return
		}

		created, err := svc.RegisterPatient(r.Context(), p, pat, tenantID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(created))
	}
}

func getPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		pat, err := svc.GetPatient(r.Context(), p, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(pat))
	}
}

func listPatientsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		includeInactive := r.URL.Query().Get("deleted") == "true"
		patients, err := svc.ListPatients(r.Context(), p, includeInactive)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]PatientResponse, 0, len(patients))
		for i := range patients {
			resp = append(resp, toPatientResponse(&patients[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func updatePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		pat, _, ok := parsePatientRequest(w, r)
		if !ok {
			return
		}
		pat.ID = id

		updated, err := svc.UpdatePatient(r.Context(), p, pat)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(updated))
	}
}

func parseTreatmentRequest(w http.ResponseWriter, r *http.Request) (patient.Treatment, *uuid.UUID, bool) {
	var req TreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return patient.Treatment{}, nil, false
	}

	pathIDs := make([]uuid.UUID, 0, len(req.PathologyIDs))
	for _, raw := range req.PathologyIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_pathology_id", "pathology_ids must be valid UUIDs")
			return patient.Treatment{}, nil, false
		}
		pathIDs = append(pathIDs, id)
	}

	tenantID, ok := parseOptionalTenant(w, req.TenantID)
	if !ok {
		return patient.Treatment{}, nil, false
	}

	return patient.Treatment{
		Name:         req.Name,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		PathologyIDs: pathIDs,
	}, tenantID, true
}

func createTreatmentHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		t, tenantID, ok := parseTreatmentRequest(w, r)
		if !ok {
			return
		}

		created, err := svc.CreateTreatment(r.Context(), p, t, tenantID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTreatmentResponse(created))
	}
}

func listTreatmentsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		treatments, err := svc.ListTreatments(r.Context(), p)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]TreatmentResponse, 0, len(treatments))
		for i := range treatments {
			resp = append(resp, toTreatmentResponse(&treatments[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func updateTreatmentHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		t, _, ok := parseTreatmentRequest(w, r)
		if !ok {
			return
		}
		t.ID = id

		updated, err := svc.UpdateTreatment(r.Context(), p, t)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTreatmentResponse(updated))
	}
}

func recordExamHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		patientID, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var req ExamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		created, err := svc.RecordExam(r.Context(), p, patient.OcularExam{
			PatientID:           patientID,
			VisualAcuityRight:   req.VisualAcuityRight,
			VisualAcuityLeft:    req.VisualAcuityLeft,
			OcularPressureRight: req.OcularPressureRight,
			OcularPressureLeft:  req.OcularPressureLeft,
			Diagnosis:           req.Diagnosis,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toExamResponse(created))
	}
}

func listExamsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		patientID, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		exams, err := svc.ListExams(r.Context(), p, patientID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]ExamResponse, 0, len(exams))
		for i := range exams {
			resp = append(resp, toExamResponse(&exams[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func patientStatusHandler(svc *patient.Service, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var pat *patient.Patient
		var err error
		if activate {
			pat, err = svc.ReactivatePatient(r.Context(), p, id)
		} else {
			pat, err = svc.DeactivatePatient(r.Context(), p, id)
		}
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(pat))
	}
}
