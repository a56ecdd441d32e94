package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-jobtracker/internal/config"
	"github.com/ytget/yt-jobtracker/internal/download"
	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/model"
	"github.com/ytget/yt-jobtracker/internal/platform"
)

// redrawInterval is how often the live table repaints
const redrawInterval = 250 * time.Millisecond

type getOptions struct {
	format    string
	quality   string
	codec     string
	audioOnly bool
	out       string
	sink      string
	noSave    bool
	live      bool
	timeout   time.Duration
}

func newGetCmd(e *env) *cobra.Command {
	opts := &getOptions{}
	cmd := &cobra.Command{
		Use:   "get URL...",
		Short: "Submit URLs, follow them to completion and save the artifacts",
		Long: `get submits every URL as its own job (playlists are expanded into one job
per video), shows a live table until all jobs are completed or failed, then
saves every completed artifact to the configured sink.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, e, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "", "output format (mp4, mp3, webm)")
	f.StringVarP(&opts.quality, "quality", "q", "", "quality (highest, high, medium, low, audio_only)")
	f.StringVar(&opts.codec, "codec", "", "video codec (h264, h265, vp9, av1)")
	f.BoolVar(&opts.audioOnly, "audio-only", false, "extract audio only")
	f.StringVarP(&opts.out, "out", "o", "", "directory for the local sink")
	f.StringVar(&opts.sink, "sink", "", "where to save artifacts: local or minio")
	f.BoolVar(&opts.noSave, "no-save", false, "track jobs without saving artifacts")
	f.BoolVar(&opts.live, "live", true, "redraw the job table while waiting")
	f.DurationVar(&opts.timeout, "timeout", 0, "give up waiting after this long (0 waits forever)")
	return cmd
}

// outputConfig applies flag overrides on top of the configured output
func (o *getOptions) outputConfig(base config.OutputConfig) config.OutputConfig {
	if o.format != "" {
		base.Format = o.format
	}
	if o.quality != "" {
		base.Quality = o.quality
	}
	if o.codec != "" {
		base.VideoCodec = o.codec
	}
	if o.audioOnly {
		base.AudioOnly = true
	}
	return base
}

func runGet(cmd *cobra.Command, e *env, opts *getOptions, urls []string) error {
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fail on a bad sink before anything is submitted
	var artifactSink download.Sink
	if !opts.noSave {
		var err error
		if artifactSink, err = e.newSink(ctx, opts.sink, opts.out); err != nil {
			return err
		}
	}

	svc := download.NewService(download.Config{
		Backend:  e.client,
		Settings: opts.outputConfig(e.cfg.Output),
		Expander: platform.NewPlaylistExpander(e.log.Named("playlist")),
		Poller: download.PollerConfig{
			Interval:      e.cfg.Poll.Interval,
			Timeout:       e.cfg.Poll.Timeout,
			MaxConcurrent: e.cfg.Poll.MaxConcurrent,
		},
		Logger: e.log.Named("tracker"),
	})

	if submitted := submitAll(ctx, out, svc, urls); submitted == 0 {
		return errors.New("no job was submitted")
	}

	svc.Start(ctx)
	defer svc.Stop()

	waitCtx := ctx
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	if err := watch(waitCtx, out, svc, opts.live); err != nil {
		return errors.Wrap(err, "stopped waiting for jobs")
	}

	jobs := svc.Snapshot()
	if !opts.noSave {
		saveCompleted(ctx, out, svc, artifactSink, jobs)
	}

	failed := 0
	for _, j := range jobs {
		if j.Status == model.JobStatusError {
			failed++
		}
	}
	if failed > 0 {
		return errors.Newf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

// submitAll submits every URL and reports how many jobs were created.
// A failing URL is reported and skipped.
func submitAll(ctx context.Context, out io.Writer, svc *download.Service, urls []string) int {
	submitted := 0
	for _, u := range urls {
		if svc.IsPlaylistURL(u) {
			sub, err := svc.SubmitPlaylist(ctx, u)
			if err != nil {
				fmt.Fprintln(out, pterm.Error.Sprintf("%s: %s", u, errors.Reason(err)))
				continue
			}
			for _, f := range sub.Failures {
				fmt.Fprintln(out, pterm.Warning.Sprintf("%s: %s", f.Entry.URL, f.Reason))
			}
			fmt.Fprintln(out, pterm.Info.Sprintf("playlist %s: %d of %d videos submitted", u, len(sub.Handles), len(sub.Entries)))
			submitted += len(sub.Handles)
			continue
		}

		h, err := svc.Submit(ctx, u)
		if err != nil {
			fmt.Fprintln(out, pterm.Error.Sprintf("%s: %s", u, errors.Reason(err)))
			continue
		}
		fmt.Fprintln(out, pterm.Info.Sprintf("submitted %s as %s", u, h.ID))
		submitted++
	}
	return submitted
}

// watch blocks until every job is terminal, redrawing the table when live
func watch(ctx context.Context, out io.Writer, svc *download.Service, live bool) error {
	if !live {
		err := svc.WaitIdle(ctx)
		printJobs(out, svc.Snapshot())
		return err
	}

	area, err := pterm.DefaultArea.Start()
	if err != nil {
		return errors.Wrap(err, "failed to start live output")
	}

	done := make(chan error, 1)
	go func() { done <- svc.WaitIdle(ctx) }()

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()
	for {
		table, _ := renderJobs(svc.Snapshot())
		area.Update(table)

		select {
		case err := <-done:
			table, _ := renderJobs(svc.Snapshot())
			area.Update(table)
			_ = area.Stop()
			return err
		case <-ticker.C:
		}
	}
}

func printJobs(out io.Writer, jobs []model.Job) {
	table, err := renderJobs(jobs)
	if err != nil {
		fmt.Fprintln(out, pterm.Error.Sprint(err))
		return
	}
	fmt.Fprintln(out, table)
}

// saveCompleted hands every completed artifact to the sink. Failures are
// reported per job and do not stop the others.
func saveCompleted(ctx context.Context, out io.Writer, svc *download.Service, s download.Sink, jobs []model.Job) {
	for _, j := range jobs {
		if j.Status != model.JobStatusCompleted {
			continue
		}
		location, err := svc.Download(ctx, j.ID, s)
		if err != nil {
			fmt.Fprintln(out, pterm.Error.Sprintf("%s: %s", shortID(j.ID), errors.Reason(err)))
			continue
		}
		fmt.Fprintln(out, pterm.Success.Sprintf("%s saved to %s", shortID(j.ID), location))
	}
}
