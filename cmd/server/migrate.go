package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/meeting-scheduler-api/internal/config"
	"github.com/yukikurage/meeting-scheduler-api/internal/database"
)

func newMigrateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := database.Connect(cfg); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}

			return database.Migrate()
		},
	}
}
