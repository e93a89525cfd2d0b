package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(app *appContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dataset without internal bookkeeping columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.buildService(nil)
			if err != nil {
				return err
			}

			n, err := svc.Export(cmd.Context(), out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d patents to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "patents_export.xlsx", "output file path")
	return cmd
}
