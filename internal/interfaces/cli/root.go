// Package cli implements the cxi command line: dataset ingestion, analysis
// runs, report rendering, and schema migrations.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
)

// CLIContext carries the loaded configuration and logger shared by all
// subcommands.
type CLIContext struct {
	Config *config.Config
	Logger logging.Logger
}

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the cxi root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cliCtx := &CLIContext{}

	root := &cobra.Command{
		Use:   "cxi",
		Short: "Customer experience insight engine",
		Long: `cxi derives drivers, pain points, entity comparisons, and improvement
recommendations from labeled customer reviews.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			logger, err := logging.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			logging.SetDefault(logger)
			cliCtx.Config = cfg
			cliCtx.Logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default: CXI_* environment)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug|info|warn|error)")

	root.AddCommand(
		newIngestCommand(cliCtx),
		newAnalyzeCommand(cliCtx),
		newReportCommand(cliCtx),
		newMigrateCommand(cliCtx),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// openDB connects to PostgreSQL using the loaded configuration.
func openDB(ctx context.Context, cliCtx *CLIContext) (*sql.DB, error) {
	return postgres.NewDB(ctx, cliCtx.Config.Database)
}
