package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vistacare/clinic-api/internal/account"
	"github.com/vistacare/clinic-api/internal/api"
	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/auth"
	"github.com/vistacare/clinic-api/internal/catalog"
	"github.com/vistacare/clinic-api/internal/config"
	"github.com/vistacare/clinic-api/internal/db"
	"github.com/vistacare/clinic-api/internal/patient"
	redisclient "github.com/vistacare/clinic-api/internal/redis"
	"github.com/vistacare/clinic-api/internal/scheduling"
	"github.com/vistacare/clinic-api/internal/tenant"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		errLogger := zerolog.New(os.Stderr)
		errLogger.Fatal().Err(err).Msg("config load error")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().
		Timestamp().
		Str("service", "api-server").
		Logger()

	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	redisCtx, cancelRedis := context.WithTimeout(rootCtx, 5*time.Second)
	rdb, err := redisclient.NewRedisClient(redisCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	cancelRedis()
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	recorder := audit.NewPgRecorder(pgPool)
	sink := audit.NewSink(recorder, logger)

	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	locker := redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)

	groupRepo := tenant.NewPgRepository(pgPool)
	groupSvc := tenant.NewService(groupRepo, sink)
	accountSvc := account.NewService(account.NewPgRepository(pgPool), groupRepo, issuer, sink, cfg.BcryptCost)
	schedulingSvc := scheduling.NewService(scheduling.NewPgRepository(pgPool), locker, sink)
	catalogSvc := catalog.NewService(catalog.NewPgRepository(pgPool), sink)
	patientSvc := patient.NewService(patient.NewPgRepository(pgPool), sink)

	router := api.NewRouter(api.RouterConfig{
		Accounts:    accountSvc,
		Groups:      groupSvc,
		Scheduling:  schedulingSvc,
		Catalog:     catalogSvc,
		Patients:    patientSvc,
		Audit:       recorder,
		TokenIssuer: issuer,
		PgPool:      pgPool,
		Redis:       rdb,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Env:         cfg.Env,
		Version:     version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	case <-rootCtx.Done():
	}

	logger.Info().Msg("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
