// Package platform contains OS integration glue: filesystem helpers,
// reveal/open in the system file manager, and playlist expansion via the
// ytdlp library.
package platform
