package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"portal/internal/platform/config"
	"portal/internal/platform/database"
	"portal/internal/platform/httpserver"
	"portal/internal/platform/logger"
	"portal/internal/platform/redis"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Hour
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides PORTAL_ADDR")
	return cmd
}

// openBackends connects to the configured database and Redis. The returned
// cleanup closes whatever was opened.
func openBackends(ctx context.Context, cfg config.Config) (backends, func(), error) {
	var b backends
	cleanup := func() {
		if b.redis != nil {
			_ = b.redis.Close()
		}
		if b.db != nil {
			_ = b.db.Close()
		}
	}
	if cfg.Database.URL != "" {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return b, cleanup, fmt.Errorf("open database: %w", err)
		}
		b.db = db
	}
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return b, cleanup, fmt.Errorf("connect redis: %w", err)
	}
	b.redis = rc
	return b, cleanup, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	b, cleanup, err := openBackends(ctx, cfg)
	defer cleanup()
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, log, b, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.close()
	if b.db == nil {
		log.WarnContext(ctx, "DATABASE_URL not set, using in-memory stores")
		// Nothing persists between runs, so the administrator is seeded on
		// every start.
		if err := a.seedAdmin(ctx, cfg.Seed, log); err != nil {
			return err
		}
	}
	go a.purgeRevoked(ctx, purgeInterval, log)

	srv := httpserver.New(cfg.Addr, a.router, httpserver.WithUploadLimit(cfg.Uploads.MaxBytes))
	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "starting portal", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
