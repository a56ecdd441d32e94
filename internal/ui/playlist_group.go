package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-jobtracker/internal/model"
)

// PlaylistGroup shows every tracked job in one list, newest first, with a
// summary line per submitted playlist above it.
type PlaylistGroup struct {
	localization *Localization

	jobs      []model.Job
	saved     map[string]string
	playlists []*model.PlaylistSubmission

	container  *fyne.Container
	summaryBox *fyne.Container
	list       *widget.List
	emptyLabel *widget.Label

	onSave    func(jobID string)
	onReveal  func(path string)
	onOpen    func(path string)
	onDismiss func(jobID string)
}

// NewPlaylistGroup creates the job list component
func NewPlaylistGroup(localization *Localization) *PlaylistGroup {
	pg := &PlaylistGroup{
		localization: localization,
		saved:        make(map[string]string),
	}
	pg.createUI()
	return pg
}

func (pg *PlaylistGroup) createUI() {
	pg.list = widget.NewList(
		func() int { return len(pg.jobs) },
		func() fyne.CanvasObject { return pg.createRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { pg.updateRow(id, obj) },
	)

	pg.emptyLabel = widget.NewLabel(pg.localization.GetText(KeyNoJobs))
	pg.emptyLabel.Alignment = fyne.TextAlignCenter

	pg.summaryBox = container.NewVBox()
	pg.summaryBox.Hide()

	pg.container = container.NewBorder(
		pg.summaryBox,
		nil,
		nil,
		nil,
		container.NewStack(pg.list, container.NewCenter(pg.emptyLabel)),
	)
}

func (pg *PlaylistGroup) createRow() fyne.CanvasObject {
	row := NewJobRow(pg.localization)
	row.SetCallbacks(
		func(id string) {
			if pg.onSave != nil {
				pg.onSave(id)
			}
		},
		func(path string) {
			if pg.onReveal != nil {
				pg.onReveal(path)
			}
		},
		func(path string) {
			if pg.onOpen != nil {
				pg.onOpen(path)
			}
		},
		func(id string) {
			if pg.onDismiss != nil {
				pg.onDismiss(id)
			}
		},
	)
	return row
}

func (pg *PlaylistGroup) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(pg.jobs) {
		return
	}
	row, ok := obj.(*JobRow)
	if !ok {
		return
	}
	job := pg.jobs[id]
	row.Update(job, pg.saved[job.ID])
}

// Container returns the root object of the group
func (pg *PlaylistGroup) Container() *fyne.Container {
	return pg.container
}

// SetRowCallbacks sets the actions wired into every JobRow
func (pg *PlaylistGroup) SetRowCallbacks(onSave, onReveal, onOpen, onDismiss func(string)) {
	pg.onSave = onSave
	pg.onReveal = onReveal
	pg.onOpen = onOpen
	pg.onDismiss = onDismiss
}

// SetJobs replaces the displayed snapshot. Must run on the UI goroutine.
func (pg *PlaylistGroup) SetJobs(jobs []model.Job, saved map[string]string) {
	pg.jobs = jobs
	pg.saved = saved
	if len(jobs) == 0 {
		pg.emptyLabel.Show()
	} else {
		pg.emptyLabel.Hide()
	}
	pg.list.Refresh()
	pg.refreshSummaries()
}

// AddPlaylist starts showing a summary line for a submitted playlist
func (pg *PlaylistGroup) AddPlaylist(p *model.PlaylistSubmission) {
	if p == nil || len(p.Handles) == 0 {
		return
	}
	pg.playlists = append([]*model.PlaylistSubmission{p}, pg.playlists...)
	pg.refreshSummaries()
}

// RefreshTexts re-renders after a language change
func (pg *PlaylistGroup) RefreshTexts() {
	pg.emptyLabel.SetText(pg.localization.GetText(KeyNoJobs))
	pg.list.Refresh()
	pg.refreshSummaries()
}

// refreshSummaries rebuilds one line per playlist that still has tracked jobs
func (pg *PlaylistGroup) refreshSummaries() {
	byID := make(map[string]model.Job, len(pg.jobs))
	for _, j := range pg.jobs {
		byID[j.ID] = j
	}

	kept := pg.playlists[:0]
	objects := make([]fyne.CanvasObject, 0, len(pg.playlists))
	for _, p := range pg.playlists {
		if !anyTracked(p, byID) {
			continue
		}
		kept = append(kept, p)
		objects = append(objects, pg.summaryLine(p, byID))
	}
	pg.playlists = kept

	pg.summaryBox.Objects = objects
	if len(objects) == 0 {
		pg.summaryBox.Hide()
	} else {
		pg.summaryBox.Show()
	}
	pg.summaryBox.Refresh()
}

func (pg *PlaylistGroup) summaryLine(p *model.PlaylistSubmission, byID map[string]model.Job) fyne.CanvasObject {
	text := fmt.Sprintf("%s (%d)", cleanText(p.URL), len(p.Handles))
	if p.HasErrors() {
		text += fmt.Sprintf(MiddleDotSeparator+"%s: %d", pg.localization.GetText(KeySubmitFailed), len(p.Failures))
	}
	label := widget.NewLabel(text)
	label.Truncation = fyne.TextTruncateEllipsis

	bar := widget.NewProgressBar()
	bar.SetValue(p.Progress(byID) / model.MaxProgress)
	return container.NewVBox(label, bar)
}

func anyTracked(p *model.PlaylistSubmission, byID map[string]model.Job) bool {
	for _, h := range p.Handles {
		if _, ok := byID[h.ID]; ok {
			return true
		}
	}
	return false
}
