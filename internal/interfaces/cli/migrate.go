package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres"
)

func newMigrateCommand(cliCtx *CLIContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := postgres.MigrateUp(cliCtx.Config.Database); err != nil {
					return err
				}
				cmd.Println("Migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := postgres.MigrateDown(cliCtx.Config.Database); err != nil {
					return err
				}
				cmd.Println("Rolled back one migration")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				version, dirty, err := postgres.MigrationVersion(cliCtx.Config.Database)
				if err != nil {
					return err
				}
				cmd.Printf("Schema version: %d (dirty: %v)\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}
