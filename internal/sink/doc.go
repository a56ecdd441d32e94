// Package sink stores retrieved artifacts: on the local filesystem for the
// desktop app and the CLI, or in MinIO/S3 object storage for headless runs.
package sink
