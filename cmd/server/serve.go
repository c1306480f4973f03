package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "backoffice/internal/adapters/http"
	pg "backoffice/internal/adapters/postgres"
	"backoffice/internal/adapters/redis"
	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/metrics"
	"backoffice/internal/ports"
	"backoffice/internal/services/analytics"
	"backoffice/internal/services/auditlog"
	"backoffice/internal/services/dbhealth"
	"backoffice/internal/services/moderation"
	"backoffice/internal/services/mutation"
	"backoffice/internal/services/profiles"
	"backoffice/internal/services/staff"
	"backoffice/internal/services/users"
	"backoffice/internal/workers/revalidator"
)

const (
	revalidateQueueSize = 256
	shutdownTimeout     = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServe(); err != nil {
			return err
		}
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, "up", logger); err != nil {
			return err
		}
	}

	var pub ports.RevalidationPublisher = revalidator.LogPublisher{Log: logger.Named("revalidator")}
	if cfg.RedisURL != "" {
		rp, err := redis.Connect(ctx, cfg.RedisURL, cfg.RevalidateChannel)
		if err != nil {
			return err
		}
		defer rp.Close()
		pub = rp
		logger.Info("revalidations published to redis", zap.String("channel", cfg.RevalidateChannel))
	}

	// The worker gets its own context so the last batch is flushed after the
	// HTTP server has drained.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	queue := revalidator.NewQueue(revalidateQueueSize, logger, m)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		revalidator.Run(workerCtx, queue, pub, cfg.RevalidateWorkers, cfg.RevalidateFlush)
	}()
	defer func() {
		stopWorkers()
		wg.Wait()
	}()

	runner := mutation.NewRunner(audit.NewRecorder(db, logger, m), queue, m, logger)
	svc := httpadapter.Services{
		Health:     dbhealth.New(db),
		Moderation: moderation.New(db, runner),
		Users:      users.New(db, runner),
		Staff:      staff.New(db, runner),
		Salons:     profiles.New(db, runner),
		Analytics:  analytics.New(db),
		AuditLog:   auditlog.New(db),
	}
	api := httpadapter.New(svc, httpadapter.Options{
		Verifier:    auth.NewVerifier(cfg.JWTSecret),
		DB:          db,
		Metrics:     m,
		Gatherer:    reg,
		Log:         logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("env", cfg.Env))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
