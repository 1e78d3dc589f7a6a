package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/export"
)

// exportCmd implements 'focusflow export'.
func exportCmd(flags *globalFlags) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export session history as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != export.FormatCSV && format != export.FormatJSON {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}

			c, err := openCore(flags)
			if err != nil {
				return err
			}
			defer c.Close()

			path := out
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("resolve home directory: %w", err)
				}
				path = export.FileName(home, format, now())
			}

			if format == export.FormatCSV {
				err = export.ToCSV(c.sessions.All(), path)
			} else {
				err = export.ToJSON(c.sessions.All(), c.tasks.All(), path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", c.sessions.Len(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: timestamped file in the home directory)")
	return cmd
}
