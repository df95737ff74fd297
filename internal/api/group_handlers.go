package api

import (
	"encoding/json"
	"net/http"

	"github.com/vistacare/clinic-api/internal/tenant"
)

// registerGroupHandler is the public clinic sign-up: no token required.
func registerGroupHandler(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		g, err := svc.RegisterGroup(r.Context(), req.Name)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toGroupResponse(g))
	}
}

func getGroupHandler(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		g, err := svc.GetGroup(r.Context(), p, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGroupResponse(g))
	}
}

func listGroupsHandler(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		groups, err := svc.ListGroups(r.Context(), p)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]GroupResponse, 0, len(groups))
		for i := range groups {
			resp = append(resp, toGroupResponse(&groups[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func groupStatusHandler(svc *tenant.Service, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var g *tenant.Group
		var err error
		if activate {
			g, err = svc.ReactivateGroup(r.Context(), p, id)
		} else {
			g, err = svc.SuspendGroup(r.Context(), p, id)
		}
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGroupResponse(g))
	}
}
