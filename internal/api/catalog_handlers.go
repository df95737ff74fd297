package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/catalog"
)

func createSpecialtyHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req SpecialtyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		spec, err := svc.CreateSpecialty(r.Context(), p, req.Name)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, SpecialtyResponse{ID: spec.ID, Name: spec.Name})
	}
}

func listSpecialtiesHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requirePrincipal(w, r); !ok {
			return
		}

		specs, err := svc.ListSpecialties(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]SpecialtyResponse, 0, len(specs))
		for _, s := range specs {
			resp = append(resp, SpecialtyResponse{ID: s.ID, Name: s.Name})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseDoctorRequest(w http.ResponseWriter, r *http.Request) (catalog.Doctor, *uuid.UUID, bool) {
	var req DoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return catalog.Doctor{}, nil, false
	}

	// user_id is required on registration but redundant on update, where
	// the URL names the doctor.
	var userID uuid.UUID
	if req.UserID != "" {
		var err error
		userID, err = uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
			return catalog.Doctor{}, nil, false
		}
	}

	specIDs := make([]uuid.UUID, 0, len(req.SpecialtyIDs))
	for _, raw := range req.SpecialtyIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_specialty_id", "specialty_ids must be valid UUIDs")
			return catalog.Doctor{}, nil, false
		}
		specIDs = append(specIDs, id)
	}

	tenantID, ok := parseOptionalTenant(w, req.TenantID)
	if !ok {
		return catalog.Doctor{}, nil, false
	}

	return catalog.Doctor{
		UserID:        userID,
		LicenseNumber: req.LicenseNumber,
		SpecialtyIDs:  specIDs,
	}, tenantID, true
}

func registerDoctorHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		d, tenantID, ok := parseDoctorRequest(w, r)
		if !ok {
			return
		}
		if d.UserID == uuid.Nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
			return
		}
		if tenantID != nil {
			d.TenantID = *tenantID
		}

		created, err := svc.RegisterDoctor(r.Context(), p, d)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(created))
	}
}

func getDoctorHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		d, err := svc.GetDoctor(r.Context(), p, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(d))
	}
}

func listDoctorsHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		doctors, err := svc.ListDoctors(r.Context(), p)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for i := range doctors {
			resp = append(resp, toDoctorResponse(&doctors[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func updateDoctorHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		d, _, ok := parseDoctorRequest(w, r)
		if !ok {
			return
		}
		d.UserID = id

		updated, err := svc.UpdateDoctor(r.Context(), p, d)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(updated))
	}
}
