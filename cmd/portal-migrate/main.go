// portal-migrate copies the legacy portal database into the new portal schema.
//
// It is safe to re-run: every row is looked up by its natural key and inserted only when
// absent. Run portal-setup first, and never run two migrations at once.
//
// Usage:
//
//	LEGACY_DB_HOST=... LEGACY_DB_NAME=... DB_HOST=... DB_NAME=... go run ./cmd/portal-migrate
//
// Set REDIS_ADDRESS to serialise runs across hosts; MIGRATE_FAMILIES=users,programs to run a
// subset (the dependency order is kept).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/mmdatafocus/portal_backend/config"
	"bitbucket.org/mmdatafocus/portal_backend/legacy"
	"bitbucket.org/mmdatafocus/portal_backend/migration"
	"bitbucket.org/mmdatafocus/portal_backend/models"
	"github.com/spf13/cobra"
)

const lockKey = "lock:portal-migrate"

func main() {
	if err := command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func command() *cobra.Command {
	var families []string
	cmd := &cobra.Command{
		Use:          "portal-migrate",
		Short:        "Migrate legacy portal data into the new schema",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadMigrationConfig(config.NewViper())
			if len(families) > 0 {
				cfg.Families = families
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			run(ctx, cfg)
			// Caught failures are reported on stdout; the exit status stays zero.
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&families, "family", nil, "Only migrate these families (repeatable). Overrides MIGRATE_FAMILIES.")
	return cmd
}

func run(ctx context.Context, cfg config.MigrationConfig) {
	logger := config.NewLogger(cfg.LogLevel, os.Stderr)
	out := os.Stdout

	legacyDB, err := config.OpenDatabase(ctx, cfg.Legacy, logger)
	if err != nil {
		config.LogError(logger, "portal-migrate", "run", "connect legacy database", cfg.Legacy.Address(), err)
		fmt.Fprintf(out, "cannot connect to legacy database %s: %v\nhint: %s\n", cfg.Legacy.Address(), err, migration.ConnectionFailure.Hint())
		return
	}
	defer config.CloseDatabase(legacyDB)

	targetDB, err := config.OpenDatabase(ctx, cfg.Target, logger)
	if err != nil {
		config.LogError(logger, "portal-migrate", "run", "connect target database", cfg.Target.Address(), err)
		fmt.Fprintf(out, "cannot connect to new database %s: %v\nhint: %s\n", cfg.Target.Address(), err, migration.ConnectionFailure.Hint())
		return
	}
	defer config.CloseDatabase(targetDB)

	runner := &migration.Runner{
		Steps:     migration.Steps(legacy.NewStore(legacyDB), models.NewStore(targetDB)),
		Logger:    logger,
		Out:       out,
		Only:      cfg.Families,
		Validator: legacy.NewValidator(),
	}

	if cfg.RedisAddress != "" {
		lock, err := config.ConnectRedisLock(ctx, cfg.RedisAddress, lockKey, cfg.LockTTL)
		if err != nil {
			config.LogError(logger, "portal-migrate", "run", "connect redis lock", cfg.RedisAddress, err)
			fmt.Fprintf(out, "cannot reach redis for the migration lock: %v\n", err)
			return
		}
		defer lock.Close()
		runner.Lock = lock
	} else {
		logger.Warn("REDIS_ADDRESS not set; running without a migration lock")
	}

	runner.Run(ctx)
}
