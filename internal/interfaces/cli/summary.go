package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// timeRound keeps durations in CLI output readable.
const timeRound = time.Millisecond

func newSummaryCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print dataset and run-history statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.buildService(nil)
			if err != nil {
				return err
			}

			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total patents:    %d\n", summary.TotalPatents)
			fmt.Fprintf(out, "With title:       %d\n", summary.WithTitle)
			fmt.Fprintf(out, "With applicants:  %d\n", summary.WithApplicants)
			fmt.Fprintf(out, "With inventors:   %d\n", summary.WithInventors)
			if summary.YearRange != "" {
				fmt.Fprintf(out, "Year range:       %s\n", summary.YearRange)
			}

			if len(summary.Sources) > 0 {
				fmt.Fprintln(out, "\nSources:")
				sources := make([]string, 0, len(summary.Sources))
				for name := range summary.Sources {
					sources = append(sources, name)
				}
				sort.Strings(sources)
				for _, name := range sources {
					fmt.Fprintf(out, "  %-8s %d\n", name, summary.Sources[name])
				}
			}

			if len(summary.TopApplicants) > 0 {
				fmt.Fprintln(out, "\nTop applicants:")
				for _, app := range summary.TopApplicants {
					fmt.Fprintf(out, "  %4d  %s\n", app.Count, app.Name)
				}
			}

			state := summary.State
			fmt.Fprintf(out, "\nRuns recorded:    %d\n", state.TotalRuns)
			if state.LastRun != nil {
				fmt.Fprintf(out, "Last run:         %s\n", state.LastRun.Format(time.RFC3339))
			}
			return nil
		},
	}
}
