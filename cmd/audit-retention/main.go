package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vistacare/clinic-api/internal/audit"
	"github.com/vistacare/clinic-api/internal/config"
	"github.com/vistacare/clinic-api/internal/db"
)

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
		Str("service", "audit-retention").
		Logger()

	logger.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Dur("retention", cfg.AuditRetention).
		Msg("audit retention worker starting up")

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

	recorder := audit.NewPgRecorder(pgPool)

	// Run once at startup
	runOnce(rootCtx, logger, recorder, cfg.AuditRetention)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info().Msg("shutdown signal received, stopping audit retention worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, logger, recorder, cfg.AuditRetention)
		}
	}
}

func runOnce(ctx context.Context, logger zerolog.Logger, recorder *audit.PgRecorder, retention time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	cutoff := start.Add(-retention)
	pruned, err := recorder.DeleteOlderThan(runCtx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("retention run error")
		return
	}
	logger.Info().
		Int64("pruned", pruned).
		Dur("took", time.Since(start)).
		Msg("retention run complete")
}
