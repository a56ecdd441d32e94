package model

import "time"

// PlaylistEntry is one video of an expanded playlist
type PlaylistEntry struct {
	VideoID string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// PlaylistSubmission records the outcome of submitting every entry of a playlist.
// Each entry becomes an independent job; a failed entry does not affect the others.
type PlaylistSubmission struct {
	URL       string          `json:"url"`
	Entries   []PlaylistEntry `json:"entries"`
	Handles   []JobHandle     `json:"handles"`
	Failures  []EntryFailure  `json:"failures,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryFailure pairs a playlist entry with the reason its submission failed
type EntryFailure struct {
	Entry  PlaylistEntry `json:"entry"`
	Reason string        `json:"reason"`
}

// NewPlaylistSubmission creates an empty submission record for url
func NewPlaylistSubmission(url string, entries []PlaylistEntry) *PlaylistSubmission {
	return &PlaylistSubmission{
		URL:       url,
		Entries:   entries,
		Handles:   make([]JobHandle, 0, len(entries)),
		CreatedAt: time.Now(),
	}
}

// AddHandle records a successfully submitted entry
func (p *PlaylistSubmission) AddHandle(h JobHandle) {
	p.Handles = append(p.Handles, h)
}

// AddFailure records an entry the backend refused or could not be reached for
func (p *PlaylistSubmission) AddFailure(e PlaylistEntry, reason string) {
	p.Failures = append(p.Failures, EntryFailure{Entry: e, Reason: reason})
}

// HasErrors checks if any entry failed to submit
func (p *PlaylistSubmission) HasErrors() bool {
	return len(p.Failures) > 0
}

// Progress returns the mean progress of the submitted jobs found in jobs.
// Jobs no longer tracked (retrieved and removed) count as finished.
func (p *PlaylistSubmission) Progress(jobs map[string]Job) float64 {
	if len(p.Handles) == 0 {
		return 0
	}
	total := 0
	for _, h := range p.Handles {
		j, ok := jobs[h.ID]
		if !ok {
			total += MaxProgress
			continue
		}
		total += j.Progress
	}
	return float64(total) / float64(len(p.Handles))
}
