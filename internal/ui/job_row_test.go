package ui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"

	"github.com/ytget/yt-jobtracker/internal/model"
)

func testJob(status model.JobStatus, progress int) model.Job {
	return model.Job{
		ID:        "job-1",
		SourceURL: "https://www.youtube.com/watch?v=abc",
		Status:    status,
		Progress:  progress,
	}
}

func TestDescribeJob_FetchingInfoShowsURL(t *testing.T) {
	v := describeJob(testJob(model.JobStatusFetchingInfo, 0), "", NewLocalization())

	assert.Equal(t, "https://www.youtube.com/watch?v=abc", v.Title)
	assert.Equal(t, widget.MediumImportance, v.Importance)
	assert.Contains(t, v.Status, "Fetching info")
	assert.False(t, v.CanSave)
	assert.False(t, v.CanDismiss)
}

func TestDescribeJob_DownloadingShowsTransfer(t *testing.T) {
	job := testJob(model.JobStatusDownloading, 42)
	job.Metadata.Title = "Some\nvideo"
	job.Transfer = &model.Transfer{Speed: 2_000_000, ETA: 75, FileSize: 10_000_000}

	v := describeJob(job, "", NewLocalization())

	assert.Equal(t, "Some video", v.Title)
	assert.InDelta(t, 0.42, v.Progress, 1e-9)
	assert.Equal(t, "42%", v.Percent)
	assert.Equal(t, widget.HighImportance, v.Importance)
	assert.Contains(t, v.Detail, "2.0 MB/s")
	assert.Contains(t, v.Detail, "01:15")
	assert.Contains(t, v.Detail, "10 MB")
}

func TestDescribeJob_DownloadingWithoutTransfer(t *testing.T) {
	v := describeJob(testJob(model.JobStatusDownloading, 5), "", NewLocalization())
	assert.Equal(t, DashPlaceholder, v.Detail)
}

func TestDescribeJob_Completed(t *testing.T) {
	job := testJob(model.JobStatusCompleted, 100)
	job.Metadata.DurationString = "3:15"

	v := describeJob(job, "", NewLocalization())
	assert.True(t, v.CanSave)
	assert.True(t, v.CanDismiss)
	assert.False(t, v.HasFile)
	assert.Equal(t, widget.SuccessImportance, v.Importance)
	assert.Equal(t, "3:15", v.Detail)
	assert.Empty(t, v.Percent)

	v = describeJob(job, "/tmp/clip.mp4", NewLocalization())
	assert.True(t, v.HasFile)
	assert.Equal(t, "/tmp/clip.mp4", v.Detail)
}

func TestDescribeJob_Error(t *testing.T) {
	job := testJob(model.JobStatusError, 30)
	job.Error = "Video unavailable"

	v := describeJob(job, "", NewLocalization())
	assert.Equal(t, widget.DangerImportance, v.Importance)
	assert.Equal(t, "Video unavailable", v.Error)
	assert.True(t, strings.HasPrefix(v.Status, IconError))
	assert.False(t, v.CanSave)
	assert.True(t, v.CanDismiss)
}

func TestLocalization_Fallbacks(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage(LangUkr)
	assert.Equal(t, LangUkr, l.GetCurrentLanguage())
	assert.NotEqual(t, "Save", l.GetText(KeySave))

	l.SetLanguage("xx")
	assert.Equal(t, LangUkr, l.GetCurrentLanguage(), "unknown language is ignored")

	l.SetLanguage(LangSystem)
	assert.Equal(t, LangEnglish, l.GetCurrentLanguage())
	assert.Equal(t, "no_such_key", l.GetText("no_such_key"))
}

func TestLocalization_EveryStatusHasText(t *testing.T) {
	l := NewLocalization()
	for _, lang := range []string{LangEnglish, LangUkr} {
		l.SetLanguage(lang)
		for _, s := range []model.JobStatus{
			model.JobStatusFetchingInfo,
			model.JobStatusDownloading,
			model.JobStatusProcessing,
			model.JobStatusCompleted,
			model.JobStatusError,
		} {
			assert.NotEqual(t, "status_"+string(s), l.StatusText(s), "%s/%s", lang, s)
		}
	}
}

func TestJobRow_ButtonsFollowState(t *testing.T) {
	test.NewTempApp(t)

	row := NewJobRow(NewLocalization())
	var saved, dismissed, revealed string
	row.SetCallbacks(
		func(id string) { saved = id },
		func(path string) { revealed = path },
		nil,
		func(id string) { dismissed = id },
	)

	row.Update(testJob(model.JobStatusProcessing, 80), "")
	assert.True(t, row.saveBtn.Disabled())
	assert.True(t, row.revealBtn.Disabled())
	assert.True(t, row.dismissBtn.Disabled())

	row.Update(testJob(model.JobStatusCompleted, 100), "/tmp/clip.mp4")
	assert.False(t, row.saveBtn.Disabled())
	assert.False(t, row.revealBtn.Disabled())
	assert.False(t, row.dismissBtn.Disabled())
	assert.Equal(t, "job-1", row.JobID())

	test.Tap(row.saveBtn)
	test.Tap(row.revealBtn)
	test.Tap(row.dismissBtn)
	test.Tap(row.openBtn) // nil callback

	assert.Equal(t, "job-1", saved)
	assert.Equal(t, "/tmp/clip.mp4", revealed)
	assert.Equal(t, "job-1", dismissed)
}
