package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/CX-Insight/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CX-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
)

func newIngestCommand(cliCtx *CLIContext) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a labeled review dataset (CSV) into the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			result, err := dataset.LoadFile(input)
			if err != nil {
				return err
			}

			// The entity registry is advisory: unknown entities are
			// ingested but flagged so typos in the dataset surface early.
			if len(cliCtx.Config.Entities) > 0 {
				unknown := make(map[string]int)
				for _, rev := range result.Reviews {
					if !cliCtx.Config.KnownEntity(rev.Entity) {
						unknown[rev.Entity]++
					}
				}
				for entity, count := range unknown {
					cliCtx.Logger.Warn("dataset contains unregistered entity",
						logging.String("entity", entity),
						logging.Int("reviews", count))
				}
			}

			db, err := openDB(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repositories.NewReviewRepository(db)
			if err := repo.SaveBatch(ctx, result.Reviews); err != nil {
				return err
			}

			cliCtx.Logger.Info("dataset ingested",
				logging.String("input", input),
				logging.Int("reviews", len(result.Reviews)),
				logging.Int("skipped", result.Skipped))
			cmd.Printf("Ingested %d reviews (%d rows skipped)\n", len(result.Reviews), result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to the CSV dataset (required)")
	cmd.MarkFlagRequired("input")
	return cmd
}
