package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/clock"
	"github.com/vistacare/clinic-api/internal/scheduling"
	"github.com/vistacare/clinic-api/internal/status"
	"github.com/vistacare/clinic-api/internal/tenant"
)

// requirePrincipal pulls the authenticated principal off the request
// context. AuthMiddleware guarantees it for protected routes, so a miss
// means the route was wired without auth.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (tenant.Principal, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing or invalid token")
		return tenant.Principal{}, false
	}
	return p, true
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalTenant(w http.ResponseWriter, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenant_id must be a valid UUID")
		return nil, false
	}
	return &id, true
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func bookAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		blockID, err := uuid.Parse(req.BlockID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_block_id", "block_id must be a valid UUID")
			return
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted YYYY-MM-DD")
			return
		}
		start, err := clock.ParseTimeOfDay(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start", "start must be formatted HH:MM")
			return
		}
		end, err := clock.ParseTimeOfDay(req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_end", "end must be formatted HH:MM")
			return
		}
		tenantID, ok := parseOptionalTenant(w, req.TenantID)
		if !ok {
			return
		}

		appt, err := svc.BookAppointment(r.Context(), p, scheduling.BookingRequest{
			PatientID: patientID,
			BlockID:   blockID,
			Date:      date,
			Start:     start,
			End:       end,
			Notes:     req.Notes,
			TenantID:  tenantID,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func getAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		appt, err := svc.GetAppointment(r.Context(), p, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var f scheduling.AppointmentFilter
		q := r.URL.Query()
		if raw := q.Get("block_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_block_id", "block_id must be a valid UUID")
				return
			}
			f.BlockID = &id
		}
		if raw := q.Get("patient_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
				return
			}
			f.PatientID = &id
		}
		if raw := q.Get("date"); raw != "" {
			date, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted YYYY-MM-DD")
				return
			}
			f.Date = &date
		}
		f.Cancelled = q.Get("deleted") == "true"

		limit, offset := parsePagination(r)
		appts, err := svc.ListAppointments(r.Context(), p, f, limit, offset)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func cancelAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var req CancelAppointmentRequest
		if r.Body != nil {
			// Reason is optional; an empty body cancels without one.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		appt, err := svc.CancelAppointment(r.Context(), p, id, req.Reason)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func restoreAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		appt, err := svc.RestoreAppointment(r.Context(), p, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func createBlockHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req CreateBlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}
		day, err := clock.ParseWeekday(req.Day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_day", "day must be MONDAY..SUNDAY")
			return
		}
		start, err := clock.ParseTimeOfDay(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start", "start must be formatted HH:MM")
			return
		}
		end, err := clock.ParseTimeOfDay(req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_end", "end must be formatted HH:MM")
			return
		}

		var attnID *uuid.UUID
		if req.AttentionTypeID != nil && *req.AttentionTypeID != "" {
			id, err := uuid.Parse(*req.AttentionTypeID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_attention_type_id", "attention_type_id must be a valid UUID")
				return
			}
			attnID = &id
		}
		tenantID, ok2 := parseOptionalTenant(w, req.TenantID)
		if !ok2 {
			return
		}

		block, err := svc.CreateBlock(r.Context(), p, scheduling.BlockRequest{
			DoctorID:        doctorID,
			Day:             day,
			Start:           start,
			End:             end,
			SlotMinutes:     req.SlotMinutes,
			MaxPerBlock:     req.MaxPerBlock,
			AttentionTypeID: attnID,
			TenantID:        tenantID,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBlockResponse(block))
	}
}

func getBlockHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		block, err := svc.GetBlock(r.Context(), p, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBlockResponse(block))
	}
}

func listBlocksHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var doctorID *uuid.UUID
		if raw := r.URL.Query().Get("doctor_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
				return
			}
			doctorID = &id
		}

		blocks, err := svc.ListBlocks(r.Context(), p, doctorID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]BlockResponse, 0, len(blocks))
		for i := range blocks {
			resp = append(resp, toBlockResponse(&blocks[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func blockStatusHandler(svc *scheduling.Service, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var block *scheduling.AvailabilityBlock
		var err error
		if activate {
			block, err = svc.ReactivateBlock(r.Context(), p, id)
		} else {
			block, err = svc.DeactivateBlock(r.Context(), p, id)
		}
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBlockResponse(block))
	}
}

func createAttentionTypeHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req AttentionTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		tenantID, ok := parseOptionalTenant(w, req.TenantID)
		if !ok {
			return
		}

		t, err := svc.CreateAttentionType(r.Context(), p, req.Name, req.Description, tenantID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAttentionTypeResponse(t))
	}
}

func listAttentionTypesHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		types, err := svc.ListAttentionTypes(r.Context(), p)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]AttentionTypeResponse, 0, len(types))
		for i := range types {
			resp = append(resp, toAttentionTypeResponse(&types[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func attentionTypeStatusHandler(svc *scheduling.Service, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		st := status.Active
		if !activate {
			st = status.Inactive
		}
		t, err := svc.SetAttentionTypeStatus(r.Context(), p, id, st)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAttentionTypeResponse(t))
	}
}
