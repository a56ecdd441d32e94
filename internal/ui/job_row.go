package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-jobtracker/internal/model"
)

// rowView is everything a JobRow shows, derived from a job snapshot
type rowView struct {
	Title      string
	Status     string
	Importance widget.Importance
	Progress   float64 // 0..1 for the progress bar
	Percent    string
	Detail     string
	Error      string
	CanSave    bool
	HasFile    bool
	CanDismiss bool
}

// StatusText returns the localized label of a job status
func (l *Localization) StatusText(s model.JobStatus) string {
	return l.GetText("status_" + string(s))
}

// describeJob maps a job and the path it was saved to (if any) onto a row view
func describeJob(job model.Job, savedPath string, loc *Localization) rowView {
	v := rowView{
		Title:      cleanText(job.DisplayTitle()),
		Progress:   float64(job.Progress) / model.MaxProgress,
		Percent:    fmt.Sprintf(ProgressLabelFormat, job.Progress),
		CanSave:    job.Status == model.JobStatusCompleted,
		HasFile:    savedPath != "",
		CanDismiss: job.Status.IsTerminal(),
	}

	status := loc.StatusText(job.Status)
	switch job.Status {
	case model.JobStatusError:
		v.Importance = widget.DangerImportance
		v.Status = IconError + " " + status
		v.Error = job.Error
		v.Percent = ""
	case model.JobStatusCompleted:
		v.Importance = widget.SuccessImportance
		v.Status = IconDone + " " + status
		v.Percent = ""
	case model.JobStatusDownloading:
		v.Importance = widget.HighImportance
		v.Status = IconPlay + " " + status
	default:
		v.Importance = widget.MediumImportance
		v.Status = IconWaiting + " " + status
	}

	var parts []string
	switch job.Status {
	case model.JobStatusDownloading:
		if job.Transfer != nil {
			if job.Transfer.Speed > 0 {
				parts = append(parts, job.SpeedString())
			}
			parts = append(parts, job.ETAString())
			if job.Transfer.FileSize > 0 {
				parts = append(parts, job.SizeString())
			}
		}
		if len(parts) == 0 {
			parts = append(parts, DashPlaceholder)
		}
	case model.JobStatusCompleted:
		if savedPath != "" {
			parts = append(parts, savedPath)
		} else if d := job.DurationText(); d != "" {
			parts = append(parts, d)
		}
	default:
		if d := job.DurationText(); d != "" {
			parts = append(parts, d)
		}
	}
	v.Detail = strings.Join(parts, MiddleDotSeparator)
	return v
}

// cleanText flattens control characters that break single-line labels
func cleanText(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s))
}

// JobRow renders one tracked job
type JobRow struct {
	widget.BaseWidget

	job          model.Job
	savedPath    string
	localization *Localization

	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
	detailLabel   *widget.Label
	errorLabel    *widget.Label

	saveBtn    *widget.Button
	revealBtn  *widget.Button
	openBtn    *widget.Button
	dismissBtn *widget.Button

	onSave    func(jobID string)
	onReveal  func(path string)
	onOpen    func(path string)
	onDismiss func(jobID string)
}

// NewJobRow creates an empty row; call Update to bind it to a job
func NewJobRow(localization *Localization) *JobRow {
	r := &JobRow{localization: localization}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

// SetCallbacks sets the action callbacks
func (r *JobRow) SetCallbacks(onSave func(string), onReveal func(string), onOpen func(string), onDismiss func(string)) {
	r.onSave = onSave
	r.onReveal = onReveal
	r.onOpen = onOpen
	r.onDismiss = onDismiss
}

// Update rebinds the row to a job snapshot
func (r *JobRow) Update(job model.Job, savedPath string) {
	r.job = job
	r.savedPath = savedPath
	r.apply(describeJob(job, savedPath, r.localization))
}

// JobID returns the id of the bound job
func (r *JobRow) JobID() string { return r.job.ID }

func (r *JobRow) createUI() {
	r.titleLabel = widget.NewLabel("")
	r.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.statusLabel = widget.NewLabel("")
	r.progressBar = widget.NewProgressBar()
	r.progressBar.TextFormatter = func() string { return "" }
	r.progressLabel = widget.NewLabel("")
	r.progressLabel.Alignment = fyne.TextAlignTrailing

	r.detailLabel = widget.NewLabel("")
	r.detailLabel.TextStyle = fyne.TextStyle{Monospace: true}
	r.detailLabel.Truncation = fyne.TextTruncateEllipsis

	r.errorLabel = widget.NewLabel("")
	r.errorLabel.Importance = widget.DangerImportance
	r.errorLabel.Wrapping = fyne.TextWrapWord
	r.errorLabel.Hide()

	r.saveBtn = widget.NewButton(r.localization.GetText(KeySave), func() {
		if r.onSave != nil && r.job.ID != "" {
			r.onSave(r.job.ID)
		}
	})
	r.saveBtn.Importance = widget.HighImportance

	r.revealBtn = widget.NewButton(r.localization.GetText(KeyReveal), func() {
		if r.onReveal != nil && r.savedPath != "" {
			r.onReveal(r.savedPath)
		}
	})
	r.openBtn = widget.NewButton(r.localization.GetText(KeyOpen), func() {
		if r.onOpen != nil && r.savedPath != "" {
			r.onOpen(r.savedPath)
		}
	})
	r.dismissBtn = widget.NewButton(IconClose, func() {
		if r.onDismiss != nil && r.job.ID != "" {
			r.onDismiss(r.job.ID)
		}
	})
	r.dismissBtn.Importance = widget.LowImportance
}

func (r *JobRow) apply(v rowView) {
	r.titleLabel.SetText(v.Title)
	r.statusLabel.Importance = v.Importance
	r.statusLabel.SetText(v.Status)
	r.progressBar.SetValue(v.Progress)
	r.progressLabel.SetText(v.Percent)
	r.detailLabel.SetText(v.Detail)

	if v.Error != "" {
		r.errorLabel.SetText(v.Error)
		r.errorLabel.Show()
	} else {
		r.errorLabel.SetText("")
		r.errorLabel.Hide()
	}

	r.saveBtn.SetText(r.localization.GetText(KeySave))
	r.revealBtn.SetText(r.localization.GetText(KeyReveal))
	r.openBtn.SetText(r.localization.GetText(KeyOpen))
	setEnabled(r.saveBtn, v.CanSave)
	setEnabled(r.revealBtn, v.HasFile)
	setEnabled(r.openBtn, v.HasFile)
	setEnabled(r.dismissBtn, v.CanDismiss)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (r *JobRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	header := container.NewBorder(nil, nil, nil,
		container.NewHBox(fixedWidth(StatusLabelWidth, r.statusLabel), r.dismissBtn),
		r.titleLabel,
	)
	progress := container.NewBorder(nil, nil, nil,
		fixedWidth(PercentLabelWidth, r.progressLabel),
		r.progressBar,
	)
	footer := container.NewBorder(nil, nil, nil,
		actionBar(r.saveBtn, r.revealBtn, r.openBtn),
		r.detailLabel,
	)

	content := container.NewVBox(header, progress, footer, r.errorLabel, widget.NewSeparator())
	return widget.NewSimpleRenderer(content)
}

// MinSize keeps rows readable in narrow windows
func (r *JobRow) MinSize() fyne.Size {
	size := r.BaseWidget.MinSize()
	return fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight))
}
