package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vistacare/clinic-api/internal/account"
	"github.com/vistacare/clinic-api/internal/tenant"
)

func loginHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		token, u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Token:    token,
			UserID:   u.ID,
			Role:     string(u.Role),
			TenantID: u.TenantID,
		})
	}
}

func createUserHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var birthDate *time.Time
		if req.BirthDate != nil && *req.BirthDate != "" {
			d, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_birth_date", "birth_date must be formatted YYYY-MM-DD")
				return
			}
			birthDate = &d
		}
		tenantID, ok := parseOptionalTenant(w, req.TenantID)
		if !ok {
			return
		}

		u, err := svc.CreateUser(r.Context(), p, account.UserRequest{
			Name:      req.Name,
			Email:     req.Email,
			Password:  req.Password,
			Sex:       req.Sex,
			BirthDate: birthDate,
			Phone:     req.Phone,
			Address:   req.Address,
			Role:      tenant.Role(req.Role),
			TenantID:  tenantID,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func getUserHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		u, err := svc.GetUser(r.Context(), p, id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func listUsersHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}

		var role *tenant.Role
		if raw := r.URL.Query().Get("role"); raw != "" {
			parsed, ok := tenant.ParseRole(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_role", "unknown role")
				return
			}
			role = &parsed
		}

		users, err := svc.ListUsers(r.Context(), p, role)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toUserResponse(&users[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func changePasswordHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.ChangePassword(r.Context(), p, id, req.Password); err != nil {
			handleServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func userStatusHandler(svc *account.Service, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := requirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := parseUUIDParam(w, r, "id")
		if !ok {
			return
		}

		var u *account.User
		var err error
		if activate {
			u, err = svc.ReactivateUser(r.Context(), p, id)
		} else {
			u, err = svc.DeactivateUser(r.Context(), p, id)
		}
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}
