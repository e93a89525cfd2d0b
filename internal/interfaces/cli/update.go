package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hamaduzi123/ip/internal/application/pipeline"
)

func newUpdateCommand(app *appContext) *cobra.Command {
	var (
		source     string
		maxResults int
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Harvest new patents and merge them into the master dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxResults > 0 {
				app.cfg.Lens.MaxResults = maxResults
				app.cfg.EPO.MaxResults = maxResults
			}

			svc, err := app.buildService(nil)
			if err != nil {
				return err
			}

			result, err := svc.Run(cmd.Context(), pipeline.RunInput{Source: source, DryRun: dryRun})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, run := range result.Runs {
				label := run.Source
				if run.DryRun {
					label += " (dry run)"
				}
				fmt.Fprintf(out, "%s: %d extracted, %d new, %d duplicates, %d dropped (%d non-English, %d malformed), total %d [%s]\n",
					label,
					run.Stats.InputCount, run.Stats.NewAdded, run.Stats.DuplicatesRemoved,
					run.Stats.NonEnglishRemoved+run.Stats.MalformedRemoved,
					run.Stats.NonEnglishRemoved, run.Stats.MalformedRemoved,
					run.TotalAfter, run.Elapsed.Round(timeRound))
			}
			fmt.Fprintf(out, "Dataset total: %d patents\n", result.TotalPatents)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", pipeline.SourceAll, "source to harvest (lens, epo, all)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "cap the number of records fetched per source")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the merge without persisting anything")
	return cmd
}
