package download

import (
	"context"

	"github.com/ytget/yt-jobtracker/internal/backend"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// Backend is the part of the backend API the engine talks to.
type Backend interface {
	Submitter
	ProgressSource
	Fetcher
}

// Submitter starts a job on the backend and returns its id.
type Submitter interface {
	Submit(ctx context.Context, url string, settings model.OutputSettings) (string, error)
}

// ProgressSource answers a single progress query.
type ProgressSource interface {
	Progress(ctx context.Context, id string) (model.ProgressUpdate, error)
}

// Fetcher downloads the raw artifact of a completed job.
type Fetcher interface {
	Fetch(ctx context.Context, id, ref string) (*backend.Artifact, error)
}

// SettingsResolver supplies the output settings in effect right now.
type SettingsResolver interface {
	OutputSettings() model.OutputSettings
}

// Sink takes ownership of a retrieved artifact and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, blob model.NamedBlob) (string, error)
}

// PlaylistExpander turns a playlist URL into its individual video URLs.
type PlaylistExpander interface {
	IsPlaylistURL(url string) bool
	Expand(ctx context.Context, url string) ([]model.PlaylistEntry, error)
}

// Tracker defines the interface front ends use to drive jobs.
type Tracker interface {
	Submit(ctx context.Context, url string) (model.JobHandle, error)
	SubmitPlaylist(ctx context.Context, url string) (*model.PlaylistSubmission, error)
	IsPlaylistURL(url string) bool
	Snapshot() []model.Job
	Get(id string) (model.Job, bool)
	Subscribe(fn Listener) (unsubscribe func())
	Retrieve(ctx context.Context, id string) (model.NamedBlob, error)
	Download(ctx context.Context, id string, sink Sink) (string, error)
	Dismiss(id string) error
	Start(ctx context.Context)
	Stop()
}

var _ Tracker = (*Service)(nil)
