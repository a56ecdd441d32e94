// Package errors provides error handling for the job tracker.
//
// It re-exports github.com/cockroachdb/errors and declares the failure taxonomy
// shared by the submission gateway, the progress poller and the artifact retriever.
//
// Usage:
//
//	// Backend rejected a submission
//	return errors.Submission("quota exceeded")
//
//	// Inspect
//	if errors.Is(err, errors.ErrInvalidInput) {
//	    // nothing was sent
//	}
//
//	// Human readable reason carried by a backend failure
//	msg := errors.Reason(err)
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllDetails  = crdb.GetAllDetails
	GetAllHints    = crdb.GetAllHints
	FlattenDetails = crdb.FlattenDetails
)

// Failure taxonomy. Wrap these to add context; check them with Is.
var (
	// ErrInvalidInput is returned before any network call when the input is unusable.
	ErrInvalidInput = New("invalid input")

	// ErrConnection indicates a transport failure: unreachable backend, timeout, reset.
	ErrConnection = New("connection error")

	// ErrSubmission indicates the backend rejected a new job or answered without an id.
	ErrSubmission = New("submission failed")

	// ErrPoll indicates a progress query failed for a single job.
	ErrPoll = New("poll failed")

	// ErrRetrieval indicates the artifact could not be fetched.
	ErrRetrieval = New("retrieval failed")

	// ErrNotFound is a retrieval failure where the backend answered 404.
	ErrNotFound = New("not found")

	// ErrServerError is a retrieval failure with any other non-success status.
	ErrServerError = New("server error")

	// ErrDuplicateJob is returned by the store when a job id is already known.
	ErrDuplicateJob = New("duplicate job")

	// ErrUnknownJob is returned when an operation names a job the store does not hold.
	ErrUnknownJob = New("unknown job")

	// ErrNotReady is returned when an artifact is requested for a job that is not completed.
	ErrNotReady = New("job not completed")
)

// InvalidInput builds an ErrInvalidInput with a message.
func InvalidInput(msg string) error {
	return Wrap(ErrInvalidInput, msg)
}

// Connection marks a transport error as ErrConnection while keeping the cause.
func Connection(err error, op string) error {
	return Mark(Wrapf(err, "%s", op), ErrConnection)
}

// Submission builds an ErrSubmission carrying the backend reason.
func Submission(reason string) error {
	return WithDetail(Wrap(ErrSubmission, reason), reason)
}

// Poll builds an ErrPoll carrying the backend reason.
func Poll(reason string) error {
	return WithDetail(Wrap(ErrPoll, reason), reason)
}

// RetrievalNotFound builds a retrieval failure for a 404 answer.
func RetrievalNotFound(reason string) error {
	return WithDetail(Mark(Wrap(ErrNotFound, reason), ErrRetrieval), reason)
}

// RetrievalServer builds a retrieval failure for any other non-success answer.
func RetrievalServer(reason string) error {
	return WithDetail(Mark(Wrap(ErrServerError, reason), ErrRetrieval), reason)
}

// Reason returns the backend supplied reason if one was attached, else the error text.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	if details := GetAllDetails(err); len(details) > 0 {
		return details[0]
	}
	return err.Error()
}
