package download

import (
	"context"
	"sync"

	"github.com/ytget/yt-jobtracker/internal/backend"
	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// fakeBackend scripts backend answers per job id and counts calls.
type fakeBackend struct {
	mu sync.Mutex

	submitIDs []string
	submitErr error
	submits   []string

	progress    map[string]model.ProgressUpdate
	progressErr map[string]error
	polls       map[string]int
	block       map[string]chan struct{}

	artifact *backend.Artifact
	fetchErr error
	fetches  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		progress:    make(map[string]model.ProgressUpdate),
		progressErr: make(map[string]error),
		polls:       make(map[string]int),
		block:       make(map[string]chan struct{}),
	}
}

func (f *fakeBackend) Submit(ctx context.Context, url string, settings model.OutputSettings) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, url)
	if f.submitErr != nil {
		return "", f.submitErr
	}
	if len(f.submitIDs) == 0 {
		return "", errors.Submission("backend returned no job id")
	}
	id := f.submitIDs[0]
	f.submitIDs = f.submitIDs[1:]
	return id, nil
}

func (f *fakeBackend) Progress(ctx context.Context, id string) (model.ProgressUpdate, error) {
	f.mu.Lock()
	f.polls[id]++
	wait := f.block[id]
	f.mu.Unlock()

	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return model.ProgressUpdate{}, errors.Connection(ctx.Err(), "progress")
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.progressErr[id]; err != nil {
		return model.ProgressUpdate{}, err
	}
	u, ok := f.progress[id]
	if !ok {
		return model.ProgressUpdate{}, errors.Poll("Download not found")
	}
	u.ID = id
	return u, nil
}

func (f *fakeBackend) Fetch(ctx context.Context, id, ref string) (*backend.Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.artifact, nil
}

func (f *fakeBackend) setProgress(id string, u model.ProgressUpdate) {
	f.mu.Lock()
	f.progress[id] = u
	f.mu.Unlock()
}

func (f *fakeBackend) pollCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls[id]
}

func (f *fakeBackend) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

type staticSettings model.OutputSettings

func (s staticSettings) OutputSettings() model.OutputSettings { return model.OutputSettings(s) }

type fakeSink struct {
	saved []model.NamedBlob
	err   error
}

func (s *fakeSink) Save(ctx context.Context, blob model.NamedBlob) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, blob)
	return "/downloads/" + blob.Filename, nil
}

type fakeExpander struct {
	entries []model.PlaylistEntry
	err     error
}

func (e *fakeExpander) IsPlaylistURL(url string) bool { return true }

func (e *fakeExpander) Expand(ctx context.Context, url string) ([]model.PlaylistEntry, error) {
	return e.entries, e.err
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int { return &i }
func boolPtr(b bool) *bool { return &b }
func statusPtr(s model.JobStatus) *model.JobStatus { return &s }
