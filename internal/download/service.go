package download

import (
	"context"
	"fmt"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// Config wires the collaborators of a Service
type Config struct {
	Backend  Backend
	Settings SettingsResolver
	Expander PlaylistExpander // optional
	Poller   PollerConfig
	Logger   *logger.Logger
}

// Service tracks remote conversion jobs from submission to retrieval
type Service struct {
	gateway   *Gateway
	store     *Store
	poller    *Poller
	retriever *Retriever
	settings  SettingsResolver
	expander  PlaylistExpander
	log       *logger.Logger
}

// NewService creates a new job tracking service
func NewService(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	store := NewStore(log.Named("store"))
	return &Service{
		gateway:   NewGateway(cfg.Backend, log.Named("gateway")),
		store:     store,
		poller:    NewPoller(cfg.Backend, store, cfg.Poller, log.Named("poller")),
		retriever: NewRetriever(cfg.Backend, cfg.Settings, log.Named("retriever")),
		settings:  cfg.Settings,
		expander:  cfg.Expander,
		log:       log,
	}
}

// Store exposes the underlying job store
func (s *Service) Store() *Store { return s.store }

// Poller exposes the underlying poller
func (s *Service) Poller() *Poller { return s.poller }

// Submit sends url with the current output settings and starts tracking the
// new job in fetching_info at 0%. Nothing is tracked when submission fails.
func (s *Service) Submit(ctx context.Context, url string) (model.JobHandle, error) {
	settings := s.outputSettings()

	handle, err := s.gateway.Submit(ctx, url, settings)
	if err != nil {
		return model.JobHandle{}, err
	}

	if err := s.store.Insert(model.NewJob(handle, settings)); err != nil {
		return handle, err
	}
	return handle, nil
}

// SubmitPlaylist expands a playlist and submits every entry as its own job.
// Entries that fail are recorded and do not stop the rest.
func (s *Service) SubmitPlaylist(ctx context.Context, url string) (*model.PlaylistSubmission, error) {
	if s.expander == nil {
		return nil, errors.InvalidInput("playlist expansion is not available")
	}

	entries, err := s.expander.Expand(ctx, url)
	if err != nil {
		return nil, err
	}

	sub := model.NewPlaylistSubmission(url, entries)
	for _, entry := range entries {
		if ctx.Err() != nil {
			sub.AddFailure(entry, ctx.Err().Error())
			continue
		}
		handle, err := s.Submit(ctx, entry.URL)
		if err != nil {
			sub.AddFailure(entry, errors.Reason(err))
			continue
		}
		sub.AddHandle(handle)
	}

	s.log.Info().
		Str("url", url).
		Int("entries", len(entries)).
		Int("submitted", len(sub.Handles)).
		Int("failed", len(sub.Failures)).
		Msg("playlist submitted")
	return sub, nil
}

// IsPlaylistURL reports whether url should go through SubmitPlaylist
func (s *Service) IsPlaylistURL(url string) bool {
	return s.expander != nil && s.expander.IsPlaylistURL(url)
}

// Snapshot returns all jobs, most recently submitted first
func (s *Service) Snapshot() []model.Job { return s.store.Snapshot() }

// Get returns a job by ID
func (s *Service) Get(id string) (model.Job, bool) { return s.store.Get(id) }

// Subscribe registers fn for job changes
func (s *Service) Subscribe(fn Listener) func() { return s.store.Subscribe(fn) }

// Retrieve fetches the artifact of a completed job. The job itself is left
// as it is whether or not retrieval succeeds.
func (s *Service) Retrieve(ctx context.Context, id string) (model.NamedBlob, error) {
	job, ok := s.store.Get(id)
	if !ok {
		return model.NamedBlob{}, errors.Wrapf(errors.ErrUnknownJob, "job %s", id)
	}
	if job.Status != model.JobStatusCompleted {
		return model.NamedBlob{}, errors.Wrapf(errors.ErrNotReady, "job %s is %s", id, job.Status)
	}
	return s.retriever.Retrieve(ctx, job.ID, job.DownloadRef)
}

// Download retrieves the artifact of a completed job and hands it to sink.
func (s *Service) Download(ctx context.Context, id string, sink Sink) (string, error) {
	blob, err := s.Retrieve(ctx, id)
	if err != nil {
		return "", err
	}

	location, err := sink.Save(ctx, blob)
	if err != nil {
		return "", errors.Wrapf(err, "failed to save %s", blob.Filename)
	}
	s.log.Info().Str("job_id", id).Str("location", location).Msg("artifact saved")
	return location, nil
}

// Dismiss stops tracking a finished job. Active jobs are still being
// polled and cannot be dismissed.
func (s *Service) Dismiss(id string) error {
	job, ok := s.store.Get(id)
	if !ok {
		return errors.Wrapf(errors.ErrUnknownJob, "job %s", id)
	}
	if job.Status.IsActive() {
		return errors.InvalidInput(fmt.Sprintf("job %s is still %s", id, job.Status))
	}
	s.store.Remove(id)
	return nil
}

// Start begins polling
func (s *Service) Start(ctx context.Context) { s.poller.Start(ctx) }

// Stop halts polling and waits for in-flight polls
func (s *Service) Stop() { s.poller.Stop() }

// WaitIdle blocks until no tracked job is active or ctx ends.
func (s *Service) WaitIdle(ctx context.Context) error {
	changed := make(chan struct{}, 1)
	unsubscribe := s.store.Subscribe(func(Change) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		if len(s.store.ActiveIDs()) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

func (s *Service) outputSettings() model.OutputSettings {
	if s.settings == nil {
		return model.OutputSettings{}
	}
	return s.settings.OutputSettings()
}
