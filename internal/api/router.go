package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vistacare/clinic-api/internal/account"
	"github.com/vistacare/clinic-api/internal/auth"
	"github.com/vistacare/clinic-api/internal/catalog"
	"github.com/vistacare/clinic-api/internal/patient"
	"github.com/vistacare/clinic-api/internal/scheduling"
	"github.com/vistacare/clinic-api/internal/tenant"
)

type RouterConfig struct {
	Accounts    *account.Service
	Groups      *tenant.Service
	Scheduling  *scheduling.Service
	Catalog     *catalog.Service
	Patients    *patient.Service
	Audit       AuditLister
	TokenIssuer *auth.TokenIssuer
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	Logger      zerolog.Logger
	CORSOrigins []string
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(ClientIPMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public: clinic sign-up and login.
	r.Post("/groups", registerGroupHandler(cfg.Groups))
	r.Post("/login", loginHandler(cfg.Accounts))

	// Everything else requires a bearer token.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.TokenIssuer))

		r.Get("/groups", listGroupsHandler(cfg.Groups))
		r.Get("/groups/{id}", getGroupHandler(cfg.Groups))
		r.Post("/groups/{id}/suspend", groupStatusHandler(cfg.Groups, false))
		r.Post("/groups/{id}/reactivate", groupStatusHandler(cfg.Groups, true))

		r.Post("/users", createUserHandler(cfg.Accounts))
		r.Get("/users", listUsersHandler(cfg.Accounts))
		r.Get("/users/{id}", getUserHandler(cfg.Accounts))
		r.Put("/users/{id}/password", changePasswordHandler(cfg.Accounts))
		r.Post("/users/{id}/deactivate", userStatusHandler(cfg.Accounts, false))
		r.Post("/users/{id}/reactivate", userStatusHandler(cfg.Accounts, true))

		r.Post("/specialties", createSpecialtyHandler(cfg.Catalog))
		r.Get("/specialties", listSpecialtiesHandler(cfg.Catalog))

		r.Post("/doctors", registerDoctorHandler(cfg.Catalog))
		r.Get("/doctors", listDoctorsHandler(cfg.Catalog))
		r.Get("/doctors/{id}", getDoctorHandler(cfg.Catalog))
		r.Put("/doctors/{id}", updateDoctorHandler(cfg.Catalog))

		r.Post("/pathologies", createPathologyHandler(cfg.Patients))
		r.Get("/pathologies", listPathologiesHandler(cfg.Patients))
		r.Post("/pathologies/{id}/deactivate", pathologyStatusHandler(cfg.Patients, false))
		r.Post("/pathologies/{id}/reactivate", pathologyStatusHandler(cfg.Patients, true))

		r.Post("/treatments", createTreatmentHandler(cfg.Patients))
		r.Get("/treatments", listTreatmentsHandler(cfg.Patients))
		r.Put("/treatments/{id}", updateTreatmentHandler(cfg.Patients))

		r.Post("/patients", registerPatientHandler(cfg.Patients))
		r.Get("/patients", listPatientsHandler(cfg.Patients))
		r.Get("/patients/{id}", getPatientHandler(cfg.Patients))
		r.Put("/patients/{id}", updatePatientHandler(cfg.Patients))
		r.Post("/patients/{id}/exams", recordExamHandler(cfg.Patients))
		r.Get("/patients/{id}/exams", listExamsHandler(cfg.Patients))
		r.Post("/patients/{id}/deactivate", patientStatusHandler(cfg.Patients, false))
		r.Post("/patients/{id}/reactivate", patientStatusHandler(cfg.Patients, true))

		r.Post("/attention-types", createAttentionTypeHandler(cfg.Scheduling))
		r.Get("/attention-types", listAttentionTypesHandler(cfg.Scheduling))
		r.Post("/attention-types/{id}/deactivate", attentionTypeStatusHandler(cfg.Scheduling, false))
		r.Post("/attention-types/{id}/reactivate", attentionTypeStatusHandler(cfg.Scheduling, true))

		r.Post("/blocks", createBlockHandler(cfg.Scheduling))
		r.Get("/blocks", listBlocksHandler(cfg.Scheduling))
		r.Get("/blocks/{id}", getBlockHandler(cfg.Scheduling))
		r.Post("/blocks/{id}/deactivate", blockStatusHandler(cfg.Scheduling, false))
		r.Post("/blocks/{id}/reactivate", blockStatusHandler(cfg.Scheduling, true))

		r.Post("/appointments", bookAppointmentHandler(cfg.Scheduling))
		r.Get("/appointments", listAppointmentsHandler(cfg.Scheduling))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Scheduling))
		r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Scheduling))
		r.Post("/appointments/{id}/restore", restoreAppointmentHandler(cfg.Scheduling))

		r.Get("/audit", listAuditHandler(cfg.Audit))
	})

	return r
}
