package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/turtacn/CX-Insight/internal/application/insights"
	"github.com/turtacn/CX-Insight/internal/application/report"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CX-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
)

func newAnalyzeCommand(cliCtx *CLIContext) *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the insight analysis",
		Long: `Run the full analysis pipeline. With --input the dataset is read from a
CSV file and the results are written to --output without touching the store;
without it, the stored reviews are analyzed and the run is persisted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			engine, err := insights.NewEngine(cliCtx.Config.Analytics, cliCtx.Logger, nil)
			if err != nil {
				return err
			}

			var doc *insight.Document
			if input != "" {
				result, err := dataset.LoadFile(input)
				if err != nil {
					return err
				}
				doc, _, err = engine.Run(ctx, result.Reviews)
				if err != nil {
					return err
				}
			} else {
				db, err := openDB(ctx, cliCtx)
				if err != nil {
					return err
				}
				defer db.Close()

				svc, err := insights.NewService(insights.ServiceConfig{
					Engine:   engine,
					Reviews:  repositories.NewReviewRepository(db),
					Insights: repositories.NewInsightRepository(db),
					Logger:   cliCtx.Logger,
				})
				if err != nil {
					return err
				}
				run, document, err := svc.Analyze(ctx)
				if err != nil {
					return err
				}
				doc = document
				cmd.Printf("Run %s completed: %d reviews analyzed, %d skipped\n",
					run.ID, run.ReviewCount, run.SkippedCount)
			}

			if output != "" {
				if err := writeOutputs(doc, output); err != nil {
					return err
				}
				cliCtx.Logger.Info("analysis outputs written", logging.String("dir", output))
				cmd.Printf("Wrote insights_summary.json and insights_report.txt to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "analyze a CSV dataset instead of the store")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for JSON and text report outputs")
	return cmd
}

// writeOutputs writes the JSON document and the text report to dir.
func writeOutputs(doc *insight.Document, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "insights_summary.json"), payload, 0o644); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "insights_report.txt"))
	if err != nil {
		return err
	}
	defer f.Close()
	return report.Render(f, doc)
}
