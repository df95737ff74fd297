package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/tenant"
)

// AuditLister is the read side of the audit trail consumed by the API.
type AuditLister interface {
	List(ctx context.Context, tenantArg *uuid.UUID, f audit.ListFilter, limit, offset int) ([]audit.Entry, error)
}

func listAuditHandler(lister AuditLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var f audit.ListFilter
		q := r.URL.Query()
		if raw := q.Get("start"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_start", "start must be an RFC3339 timestamp")
				return
			}
			f.Start = &t
		}
		if raw := q.Get("end"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_end", "end must be an RFC3339 timestamp")
				return
			}
			f.End = &t
		}
		if raw := q.Get("actor_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_actor_id", "actor_id must be a valid UUID")
				return
			}
			f.ActorID = &id
		}
		f.ActorName = q.Get("actor")

		limit, offset := parsePagination(r)
		if limit <= 0 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		if offset < 0 {
			offset = 0
		}

		entries, err := lister.List(r.Context(), tenant.ResolveScope(p).Arg(), f, limit, offset)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]AuditEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, AuditEntryResponse{
				ID:        e.ID,
				ActorID:   e.ActorID,
				Action:    e.Action,
				Object:    e.Object,
				IP:        e.IP,
				TenantID:  e.TenantID,
				CreatedAt: e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
