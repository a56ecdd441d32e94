package model

import "strings"

// DefaultExtension is used when no output format is configured
const DefaultExtension = "mp4"

// OutputSettings are the conversion options sent with every submission
type OutputSettings struct {
	Format     string
	Quality    string
	VideoCodec string
	AudioOnly  bool
}

// Extension returns the file extension implied by Format, "mp4" if unset
func (s OutputSettings) Extension() string {
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s.Format)), ".")
	if ext == "" {
		return DefaultExtension
	}
	return ext
}

// NamedBlob is a retrieved artifact with its suggested filename and MIME type
type NamedBlob struct {
	Bytes    []byte
	Filename string
	MimeType string
}

// Size returns the artifact size in bytes
func (b NamedBlob) Size() int64 {
	return int64(len(b.Bytes))
}
