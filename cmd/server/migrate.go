package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"portal/internal/platform/config"
	"portal/internal/platform/database"
	"portal/internal/platform/logger"
)

func newMigrateCmd() *cobra.Command {
	var skipSeed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply every embedded SQL migration not yet recorded in
schema_migrations, then create the administrator named by
SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD when it does not exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), cfg, !skipSeed)
		},
	}
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not create the seed administrator")
	return cmd
}

func migrate(ctx context.Context, cfg config.Config, seed bool) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required to migrate")
	}

	b, cleanup, err := openBackends(ctx, cfg)
	defer cleanup()
	if err != nil {
		return err
	}
	if err := database.MigrateWithLogger(ctx, b.db, log); err != nil {
		return err
	}
	if !seed {
		return nil
	}
	// A private registry keeps the one-shot command off the process-wide one.
	a, err := buildApp(cfg, log, b, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.close()
	return a.seedAdmin(ctx, cfg.Seed, log)
}
