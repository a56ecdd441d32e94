package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/ytget/yt-jobtracker/internal/model"
)

func TestPlaylistGroup_EmptyState(t *testing.T) {
	test.NewTempApp(t)

	pg := NewPlaylistGroup(NewLocalization())
	pg.SetJobs(nil, nil)
	assert.True(t, pg.emptyLabel.Visible())

	pg.SetJobs([]model.Job{testJob(model.JobStatusDownloading, 10)}, nil)
	assert.False(t, pg.emptyLabel.Visible())
	assert.Equal(t, 1, pg.list.Length())
}

func TestPlaylistGroup_SummaryLivesWhileJobsAreTracked(t *testing.T) {
	test.NewTempApp(t)

	entries := []model.PlaylistEntry{{VideoID: "a"}, {VideoID: "b"}}
	sub := model.NewPlaylistSubmission("https://www.youtube.com/playlist?list=PL1", entries)
	sub.AddHandle(model.JobHandle{ID: "a"})
	sub.AddHandle(model.JobHandle{ID: "b"})

	pg := NewPlaylistGroup(NewLocalization())
	pg.SetJobs([]model.Job{
		{ID: "a", Status: model.JobStatusDownloading, Progress: 50},
		{ID: "b", Status: model.JobStatusFetchingInfo},
	}, nil)
	pg.AddPlaylist(sub)
	assert.True(t, pg.summaryBox.Visible())
	assert.Len(t, pg.summaryBox.Objects, 1)

	pg.SetJobs([]model.Job{{ID: "b", Status: model.JobStatusProcessing, Progress: 90}}, nil)
	assert.Len(t, pg.summaryBox.Objects, 1)

	pg.SetJobs(nil, nil)
	assert.False(t, pg.summaryBox.Visible())
	assert.Empty(t, pg.playlists)
}

func TestPlaylistGroup_IgnoresEmptySubmission(t *testing.T) {
	test.NewTempApp(t)

	pg := NewPlaylistGroup(NewLocalization())
	pg.AddPlaylist(nil)
	pg.AddPlaylist(model.NewPlaylistSubmission("https://www.youtube.com/playlist?list=PL1", nil))
	assert.Empty(t, pg.playlists)
}
