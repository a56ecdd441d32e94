package download

import (
	"context"
	"testing"
	"time"

	"github.com/ytget/yt-jobtracker/internal/backend"
	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/model"
)

func newTestService(fb *fakeBackend) *Service {
	return NewService(Config{
		Backend:  fb,
		Settings: staticSettings{Format: "mp4", Quality: "highest"},
		Poller:   PollerConfig{Interval: time.Hour},
	})
}

func TestNewService(t *testing.T) {
	service := newTestService(newFakeBackend())

	if service.Store().Len() != 0 {
		t.Errorf("Expected empty store, got %d jobs", service.Store().Len())
	}
	if service.Poller().Running() {
		t.Error("Expected poller to be idle until Start")
	}
}

// Submitting a URL tracks one job in fetching_info at 0%.
func TestSubmit_TracksNewJob(t *testing.T) {
	fb := newFakeBackend()
	fb.submitIDs = []string{"job1"}
	service := newTestService(fb)

	handle, err := service.Submit(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if handle.ID != "job1" || handle.SourceURL != "https://youtu.be/abc" {
		t.Errorf("Unexpected handle %+v", handle)
	}

	jobs := service.Snapshot()
	if len(jobs) != 1 {
		t.Fatalf("Expected 1 job, got %d", len(jobs))
	}
	if jobs[0].ID != "job1" || jobs[0].Status != model.JobStatusFetchingInfo || jobs[0].Progress != 0 {
		t.Errorf("Unexpected job %+v", jobs[0])
	}
	if jobs[0].Settings.Format != "mp4" {
		t.Errorf("Expected submitted settings on the job, got %+v", jobs[0].Settings)
	}
}

// Blank input never reaches the network.
func TestSubmit_BlankURL(t *testing.T) {
	for _, url := range []string{"", "   ", "\t\n"} {
		fb := newFakeBackend()
		service := newTestService(fb)

		_, err := service.Submit(context.Background(), url)
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("Submit(%q): expected ErrInvalidInput, got %v", url, err)
		}
		if fb.submitCount() != 0 {
			t.Errorf("Submit(%q): expected no network call, got %d", url, fb.submitCount())
		}
		if service.Store().Len() != 0 {
			t.Errorf("Submit(%q): expected store unchanged", url)
		}
	}
}

func TestSubmit_FailureCreatesNoJob(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"rejected", errors.Submission("quota exceeded"), errors.ErrSubmission},
		{"unreachable", errors.Connection(context.DeadlineExceeded, "POST /download"), errors.ErrConnection},
		{"unclassified", errors.New("boom"), errors.ErrSubmission},
	}

	for _, test := range tests {
		fb := newFakeBackend()
		fb.submitErr = test.err
		service := newTestService(fb)

		_, err := service.Submit(context.Background(), "https://youtu.be/abc")
		if !errors.Is(err, test.kind) {
			t.Errorf("%s: expected %v, got %v", test.name, test.kind, err)
		}
		if fb.submitCount() != 1 {
			t.Errorf("%s: expected exactly one call, got %d", test.name, fb.submitCount())
		}
		if service.Store().Len() != 0 {
			t.Errorf("%s: expected no job", test.name)
		}
	}
}

// Full lifecycle: downloading, completed, removed, and a 404 on retrieval.
func TestService_Lifecycle(t *testing.T) {
	fb := newFakeBackend()
	fb.submitIDs = []string{"job1"}
	service := newTestService(fb)
	ctx := context.Background()

	if _, err := service.Submit(ctx, "https://youtu.be/abc"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	fb.setProgress("job1", model.ProgressUpdate{
		Progress: floatPtr(45),
		Status:   statusPtr(model.JobStatusDownloading),
		Speed:    floatPtr(1048576),
		ETA:      intPtr(30),
	})
	service.Poller().Tick(ctx)

	job, _ := service.Get("job1")
	if job.Progress != 45 || job.Status != model.JobStatusDownloading {
		t.Errorf("Expected downloading at 45, got %s at %d", job.Status, job.Progress)
	}
	if job.Transfer == nil || job.Transfer.Speed != 1048576 || job.Transfer.ETA != 30 {
		t.Errorf("Unexpected transfer stats %+v", job.Transfer)
	}
	if ids := service.Store().ActiveIDs(); len(ids) != 1 {
		t.Errorf("Expected job to stay in the poll set, got %v", ids)
	}

	fb.setProgress("job1", model.ProgressUpdate{
		Status:      statusPtr(model.JobStatusCompleted),
		DownloadURL: strPtr("ref123"),
		Removed:     boolPtr(false),
	})
	service.Poller().Tick(ctx)

	job, ok := service.Get("job1")
	if !ok {
		t.Fatal("Expected completed job to stay in the store")
	}
	if job.Status != model.JobStatusCompleted || job.DownloadRef != "ref123" {
		t.Errorf("Expected completed with ref123, got %s %q", job.Status, job.DownloadRef)
	}

	service.Poller().Tick(ctx)
	if fb.pollCount("job1") != 2 {
		t.Errorf("Expected completed job to be excluded from polling, got %d polls", fb.pollCount("job1"))
	}

	fb.fetchErr = errors.RetrievalNotFound("File not found")
	_, err := service.Retrieve(ctx, "job1")
	if !errors.Is(err, errors.ErrNotFound) || !errors.Is(err, errors.ErrRetrieval) {
		t.Errorf("Expected not-found retrieval error, got %v", err)
	}
	after, _ := service.Get("job1")
	if after.Status != model.JobStatusCompleted || after.DownloadRef != "ref123" {
		t.Errorf("Expected retrieval failure to leave job intact, got %+v", after)
	}

	service.Store().Reconcile(model.ProgressUpdate{ID: "job1", Status: statusPtr(model.JobStatusCompleted), Removed: boolPtr(true)})
	if _, ok := service.Get("job1"); ok {
		t.Error("Expected job to be deleted once removed")
	}
}

func TestService_RetrieveRequiresCompletedJob(t *testing.T) {
	fb := newFakeBackend()
	fb.submitIDs = []string{"job1"}
	service := newTestService(fb)

	if _, err := service.Retrieve(context.Background(), "nope"); !errors.Is(err, errors.ErrUnknownJob) {
		t.Errorf("Expected ErrUnknownJob, got %v", err)
	}

	service.Submit(context.Background(), "https://youtu.be/abc")
	if _, err := service.Retrieve(context.Background(), "job1"); !errors.Is(err, errors.ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
	if fb.fetches != 0 {
		t.Errorf("Expected no fetch for an unfinished job, got %d", fb.fetches)
	}
}

func TestService_DownloadHandsOffToSink(t *testing.T) {
	fb := newFakeBackend()
	fb.submitIDs = []string{"job1"}
	fb.artifact = &backend.Artifact{Body: []byte("video"), ContentDisposition: `attachment; filename="Clip.mp4"`}
	service := newTestService(fb)

	service.Submit(context.Background(), "https://youtu.be/abc")
	service.Store().Reconcile(model.ProgressUpdate{ID: "job1", Status: statusPtr(model.JobStatusCompleted)})

	sink := &fakeSink{}
	location, err := service.Download(context.Background(), "job1", sink)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if location != "/downloads/Clip.mp4" {
		t.Errorf("Unexpected location %q", location)
	}
	if len(sink.saved) != 1 || string(sink.saved[0].Bytes) != "video" {
		t.Errorf("Expected blob handed to sink, got %+v", sink.saved)
	}

	sink.err = errors.New("disk full")
	if _, err := service.Download(context.Background(), "job1", sink); err == nil {
		t.Error("Expected sink error to surface")
	}
	if job, ok := service.Get("job1"); !ok || job.Status != model.JobStatusCompleted {
		t.Error("Expected job to stay completed after a failed save")
	}
}

func TestService_SubmitPlaylist(t *testing.T) {
	fb := newFakeBackend()
	fb.submitIDs = []string{"j1", "j2"}
	service := NewService(Config{
		Backend: fb,
		Expander: &fakeExpander{entries: []model.PlaylistEntry{
			{VideoID: "a", URL: "https://youtu.be/a"},
			{VideoID: "b", URL: "https://youtu.be/b"},
			{VideoID: "c", URL: "https://youtu.be/c"},
		}},
	})

	sub, err := service.SubmitPlaylist(context.Background(), "https://youtube.com/playlist?list=PL1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(sub.Handles) != 2 || len(sub.Failures) != 1 {
		t.Errorf("Expected 2 handles and 1 failure, got %d and %d", len(sub.Handles), len(sub.Failures))
	}
	if sub.Failures[0].Entry.VideoID != "c" {
		t.Errorf("Expected entry c to fail, got %s", sub.Failures[0].Entry.VideoID)
	}
	if service.Store().Len() != 2 {
		t.Errorf("Expected 2 tracked jobs, got %d", service.Store().Len())
	}
}

func TestService_SubmitPlaylistWithoutExpander(t *testing.T) {
	service := newTestService(newFakeBackend())

	if _, err := service.SubmitPlaylist(context.Background(), "https://youtube.com/playlist?list=PL1"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if service.IsPlaylistURL("https://youtube.com/playlist?list=PL1") {
		t.Error("Expected no playlist support without an expander")
	}
}

func TestService_WaitIdle(t *testing.T) {
	fb := newFakeBackend()
	fb.submitIDs = []string{"job1"}
	service := newTestService(fb)
	service.Submit(context.Background(), "https://youtu.be/abc")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := service.WaitIdle(ctx); err == nil {
		t.Error("Expected WaitIdle to time out while the job is active")
	}

	done := make(chan error, 1)
	go func() { done <- service.WaitIdle(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	service.Store().Reconcile(model.ProgressUpdate{ID: "job1", Status: statusPtr(model.JobStatusError), Error: strPtr("Video unavailable")})

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitIdle did not return after the last job finished")
	}
}

func TestService_Dismiss(t *testing.T) {
	fb := newFakeBackend()
	fb.submitIDs = []string{"job1"}
	service := newTestService(fb)
	service.Submit(context.Background(), "https://youtu.be/abc")

	if err := service.Dismiss("job1"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Expected active job to be kept, got %v", err)
	}

	service.Store().Reconcile(model.ProgressUpdate{ID: "job1", Status: statusPtr(model.JobStatusError)})
	if err := service.Dismiss("job1"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := service.Dismiss("job1"); !errors.Is(err, errors.ErrUnknownJob) {
		t.Errorf("Expected ErrUnknownJob, got %v", err)
	}
}
