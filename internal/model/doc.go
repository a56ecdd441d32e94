package model

// Package model defines domain data structures used across the app: tracked
// conversion jobs, partial progress updates coming from the backend, output
// settings and retrieved artifacts. Job status is an explicit state machine.
