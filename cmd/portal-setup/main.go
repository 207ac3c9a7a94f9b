// portal-setup creates or upgrades the new portal schema. Unlike portal-migrate it exits
// non-zero when anything fails.
//
// Usage:
//
//	DB_HOST=... DB_NAME=... DB_USER=... DB_PASSWORD=... go run ./cmd/portal-setup
package main

import (
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/portal_backend/config"
	"bitbucket.org/mmdatafocus/portal_backend/models"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:          "portal-setup",
		Short:        "Create the new portal schema",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := config.NewViper()
			logger := config.NewLogger(v.GetString("LOG_LEVEL"), os.Stderr)
			dbCfg := config.LoadDBConfig(v, config.TargetPrefix)

			db, err := config.OpenDatabase(cmd.Context(), dbCfg, logger)
			if err != nil {
				return fmt.Errorf("connect %s: %w", dbCfg.Address(), err)
			}
			defer config.CloseDatabase(db)

			if err := models.MigrateTable(db); err != nil {
				config.LogError(logger, "portal-setup", "main", "auto migrate", dbCfg.Address(), err)
				return fmt.Errorf("schema creation failed: %w", err)
			}
			fmt.Printf("schema ready on %s\n", dbCfg.Address())
			return nil
		},
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
