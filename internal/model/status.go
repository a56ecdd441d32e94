package model

import "fmt"

// JobStatus represents the lifecycle state of a remote conversion job
type JobStatus string

const (
	// JobStatusFetchingInfo means the backend accepted the job and is resolving the source
	JobStatusFetchingInfo JobStatus = "fetching_info"

	// JobStatusDownloading means the backend is fetching the source media
	JobStatusDownloading JobStatus = "downloading"

	// JobStatusProcessing means the backend is converting or muxing the media
	JobStatusProcessing JobStatus = "processing"

	// JobStatusCompleted means the artifact is ready for retrieval
	JobStatusCompleted JobStatus = "completed"

	// JobStatusError means the backend reported a failure
	JobStatusError JobStatus = "error"
)

// transitions lists the legal next states for every non-terminal state.
var transitions = map[JobStatus][]JobStatus{
	JobStatusFetchingInfo: {JobStatusDownloading, JobStatusProcessing, JobStatusCompleted, JobStatusError},
	JobStatusDownloading:  {JobStatusProcessing, JobStatusCompleted, JobStatusError},
	JobStatusProcessing:   {JobStatusCompleted, JobStatusError},
}

// ParseJobStatus converts a backend status string into a JobStatus
func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(s); st {
	case JobStatusFetchingInfo, JobStatusDownloading, JobStatusProcessing, JobStatusCompleted, JobStatusError:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsActive returns true if the job still needs polling
func (s JobStatus) IsActive() bool {
	return s == JobStatusFetchingInfo || s == JobStatusDownloading || s == JobStatusProcessing
}

// IsTerminal returns true if the job reached completed or error
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// CanTransitionTo reports whether moving from s to next is legal.
// Staying in the same state is always legal.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
