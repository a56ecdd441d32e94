package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newHealthCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the backend status page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := e.client.Health(cmd.Context())
			if err != nil {
				return err
			}

			data := pterm.TableData{
				{"backend", e.client.BaseURL()},
				{"status", h.Status},
				{"message", h.Message},
				{"active", fmt.Sprint(h.ActiveDownloads)},
				{"completed", fmt.Sprint(h.CompletedDownloads)},
				{"total", fmt.Sprint(h.TotalDownloads)},
				{"folder", h.DownloadFolder},
			}
			table, err := pterm.DefaultTable.WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
