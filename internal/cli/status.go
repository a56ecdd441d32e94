package cli

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/model"
)

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID...",
		Short: "Query the backend once for the state of each job",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			jobs := make([]model.Job, 0, len(args))
			failed := 0
			for _, id := range args {
				u, err := e.client.Progress(cmd.Context(), id)
				if err != nil {
					fmt.Fprintln(out, pterm.Error.Sprintf("%s: %s", id, errors.Reason(err)))
					failed++
					continue
				}
				if u.IsRemoval() {
					fmt.Fprintln(out, pterm.Warning.Sprintf("%s: removed by the backend", id))
					continue
				}
				jobs = append(jobs, jobFromUpdate(u))
			}

			if len(jobs) > 0 {
				printJobs(out, jobs)
			}
			if failed > 0 {
				return errors.Newf("%d of %d queries failed", failed, len(args))
			}
			return nil
		},
	}
}

// jobFromUpdate builds a standalone job view from a single progress answer
func jobFromUpdate(u model.ProgressUpdate) model.Job {
	now := time.Now()
	job := model.NewJob(model.JobHandle{ID: u.ID, CreatedAt: now}, model.OutputSettings{})
	// Every status is reachable from fetching_info
	_, _ = job.Apply(u, now)
	return job
}
