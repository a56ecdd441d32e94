// Package download implements the client side of remote conversion jobs.
//
// A Gateway submits jobs, a Store holds the authoritative local view of every
// job, a Poller keeps active jobs in sync with the backend on a fixed interval
// and a Retriever fetches finished artifacts. Service wires them together for
// the desktop UI and the CLI.
package download
