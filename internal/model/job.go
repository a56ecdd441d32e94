package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-jobtracker/internal/errors"
)

// ErrInvalidTransition is returned by Apply when an update would move a job
// to a state its current state cannot reach.
var ErrInvalidTransition = errors.New("invalid status transition")

// DefaultDownloadRefFormat is the backend path serving a finished artifact.
const DefaultDownloadRefFormat = "/file/%s"

// Progress bounds
const (
	MinProgress = 0
	MaxProgress = 100
)

// Metadata holds descriptive fields the backend fills in over time.
// Zero values mean "not known yet".
type Metadata struct {
	Title          string
	Duration       float64 // seconds
	DurationString string
	Thumbnail      string
	Uploader       string
	ViewCount      int64
}

// Transfer holds download statistics, present only while downloading.
type Transfer struct {
	Speed    float64 // bytes per second
	ETA      int     // seconds, 0 if unknown
	FileSize int64   // bytes
}

// Job is one submitted conversion tracked from submission to a terminal state.
type Job struct {
	ID        string
	SourceURL string
	CreatedAt time.Time
	Settings  OutputSettings

	Status      JobStatus
	Progress    int // 0 to 100
	Metadata    Metadata
	Transfer    *Transfer
	DownloadRef string
	Error       string
	UpdatedAt   time.Time
}

// JobHandle is what a successful submission returns.
type JobHandle struct {
	ID        string
	SourceURL string
	CreatedAt time.Time
}

// NewJob creates the initial local record for a freshly submitted job.
func NewJob(h JobHandle, settings OutputSettings) Job {
	return Job{
		ID:        h.ID,
		SourceURL: h.SourceURL,
		CreatedAt: h.CreatedAt,
		Settings:  settings,
		Status:    JobStatusFetchingInfo,
		Progress:  0,
		UpdatedAt: h.CreatedAt,
	}
}

// ProgressUpdate is a partial view of a job as reported by one poll.
// A nil field was not supplied and must not overwrite anything.
type ProgressUpdate struct {
	ID string

	Status   *JobStatus
	Progress *float64

	Title          *string
	Duration       *float64
	DurationString *string
	Thumbnail      *string
	Uploader       *string
	ViewCount      *int64

	FileSize *int64
	Speed    *float64
	ETA      *int

	DownloadURL *string
	Error       *string
	Removed     *bool
}

// IsRemoval reports whether the update carries removed=true.
func (u ProgressUpdate) IsRemoval() bool {
	return u.Removed != nil && *u.Removed
}

// Clone returns a deep copy safe to hand to readers.
func (j Job) Clone() Job {
	if j.Transfer != nil {
		t := *j.Transfer
		j.Transfer = &t
	}
	return j
}

// Apply merges u into the job. Fields absent from u are left untouched.
// It returns whether anything changed. When u carries a status the current
// status cannot reach, nothing is applied and ErrInvalidTransition is returned.
func (j *Job) Apply(u ProgressUpdate, now time.Time) (bool, error) {
	next := j.Status
	if u.Status != nil {
		if !j.Status.CanTransitionTo(*u.Status) {
			return false, errors.Wrapf(ErrInvalidTransition, "%s -> %s", j.Status, *u.Status)
		}
		next = *u.Status
	}

	changed := next != j.Status
	j.Status = next

	if u.Progress != nil {
		changed = j.raiseProgress(*u.Progress) || changed
	}
	if next == JobStatusCompleted {
		changed = j.raiseProgress(MaxProgress) || changed
	}

	changed = mergeString(&j.Metadata.Title, u.Title) || changed
	changed = mergeString(&j.Metadata.DurationString, u.DurationString) || changed
	changed = mergeString(&j.Metadata.Thumbnail, u.Thumbnail) || changed
	changed = mergeString(&j.Metadata.Uploader, u.Uploader) || changed
	if u.Duration != nil && *u.Duration > 0 && *u.Duration != j.Metadata.Duration {
		j.Metadata.Duration = *u.Duration
		changed = true
	}
	if u.ViewCount != nil && *u.ViewCount > 0 && *u.ViewCount != j.Metadata.ViewCount {
		j.Metadata.ViewCount = *u.ViewCount
		changed = true
	}

	changed = j.applyTransfer(u) || changed

	switch next {
	case JobStatusCompleted:
		changed = mergeString(&j.DownloadRef, u.DownloadURL) || changed
		if j.DownloadRef == "" {
			j.DownloadRef = fmt.Sprintf(DefaultDownloadRefFormat, j.ID)
			changed = true
		}
	case JobStatusError:
		changed = mergeString(&j.Error, u.Error) || changed
		if j.Error == "" {
			j.Error = "backend reported an error"
			changed = true
		}
	}

	if changed {
		j.UpdatedAt = now
	}
	return changed, nil
}

// raiseProgress clamps p into range and only ever moves progress forward.
func (j *Job) raiseProgress(p float64) bool {
	v := int(math.Round(p))
	if v < MinProgress {
		v = MinProgress
	}
	if v > MaxProgress {
		v = MaxProgress
	}
	if v <= j.Progress {
		return false
	}
	j.Progress = v
	return true
}

func (j *Job) applyTransfer(u ProgressUpdate) bool {
	if j.Status != JobStatusDownloading {
		if j.Transfer == nil {
			return false
		}
		j.Transfer = nil
		return true
	}
	if u.Speed == nil && u.ETA == nil && u.FileSize == nil {
		return false
	}
	if j.Transfer == nil {
		j.Transfer = &Transfer{}
	}
	changed := false
	if u.Speed != nil && *u.Speed != j.Transfer.Speed {
		j.Transfer.Speed = *u.Speed
		changed = true
	}
	if u.ETA != nil && *u.ETA != j.Transfer.ETA {
		j.Transfer.ETA = *u.ETA
		changed = true
	}
	if u.FileSize != nil && *u.FileSize != j.Transfer.FileSize {
		j.Transfer.FileSize = *u.FileSize
		changed = true
	}
	return changed
}

func mergeString(dst *string, src *string) bool {
	if src == nil || *src == "" || *src == *dst {
		return false
	}
	*dst = *src
	return true
}

// ETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (j Job) ETAString() string {
	if j.Transfer == nil || j.Transfer.ETA <= 0 {
		return "—"
	}
	return formatSeconds(j.Transfer.ETA)
}

// SpeedString returns a human readable transfer rate, or "" when not downloading
func (j Job) SpeedString() string {
	if j.Transfer == nil || j.Transfer.Speed <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(j.Transfer.Speed)) + "/s"
}

// SizeString returns a human readable file size, or "" when unknown
func (j Job) SizeString() string {
	if j.Transfer == nil || j.Transfer.FileSize <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(j.Transfer.FileSize))
}

// DurationText prefers the backend's own duration string.
func (j Job) DurationText() string {
	if j.Metadata.DurationString != "" {
		return j.Metadata.DurationString
	}
	if j.Metadata.Duration > 0 {
		return formatSeconds(int(j.Metadata.Duration))
	}
	return ""
}

// DisplayTitle returns the title once known, otherwise the source URL
func (j Job) DisplayTitle() string {
	if j.Metadata.Title != "" && !strings.HasPrefix(j.Metadata.Title, "http") {
		return j.Metadata.Title
	}
	return j.SourceURL
}

func formatSeconds(total int) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
