package cli

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/turtacn/CX-Insight/internal/application/report"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres/repositories"
)

func newReportCommand(cliCtx *CLIContext) *cobra.Command {
	var (
		runID  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the insight report for a stored run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := openDB(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repositories.NewInsightRepository(db)
			var doc *insight.Document
			if runID != "" {
				id, err := uuid.Parse(runID)
				if err != nil {
					return err
				}
				doc, err = repo.GetDocument(ctx, id)
				if err != nil {
					return err
				}
			} else {
				doc, err = repo.LatestDocument(ctx)
				if err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return report.Render(w, doc)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run ID to report on (default: latest)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	return cmd
}
