package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-jobtracker/internal/download"
)

func newFetchCmd(e *env) *cobra.Command {
	var ref, out, sinkKind string
	cmd := &cobra.Command{
		Use:   "fetch ID",
		Short: "Retrieve the artifact of a completed job and save it",
		Long: `fetch downloads the artifact of a job that already completed on the backend,
for instance one submitted by the desktop app, and hands it to the sink.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := e.newSink(ctx, sinkKind, out)
			if err != nil {
				return err
			}

			retriever := download.NewRetriever(e.client, e.cfg.Output, e.log.Named("retriever"))
			blob, err := retriever.Retrieve(ctx, id, ref)
			if err != nil {
				return err
			}

			location, err := s.Save(ctx, blob)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("%s (%s) saved to %s",
				blob.Filename, humanize.Bytes(uint64(blob.Size())), location))
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "absolute download URL reported by the backend (default {backend}/file/{id})")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory for the local sink")
	cmd.Flags().StringVar(&sinkKind, "sink", "", "where to save the artifact: local or minio")
	return cmd
}
