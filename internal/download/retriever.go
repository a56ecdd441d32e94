package download

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// DefaultMimeType is used when neither the response nor the filename says otherwise
const DefaultMimeType = "video/mp4"

// mimeTypes covers media extensions the platform table usually lacks
var mimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
}

// Retriever downloads finished artifacts. It never touches job state.
type Retriever struct {
	fetcher  Fetcher
	settings SettingsResolver
	log      *logger.Logger
}

// NewRetriever creates an artifact retriever. settings may be nil, in which
// case fallback filenames use the mp4 extension.
func NewRetriever(fetcher Fetcher, settings SettingsResolver, log *logger.Logger) *Retriever {
	if log == nil {
		log = logger.Nop()
	}
	return &Retriever{fetcher: fetcher, settings: settings, log: log}
}

// Retrieve fetches the artifact for jobID and names it. Calling it again for
// the same job fetches again; nothing is cached.
func (r *Retriever) Retrieve(ctx context.Context, jobID, downloadRef string) (model.NamedBlob, error) {
	artifact, err := r.fetcher.Fetch(ctx, jobID, downloadRef)
	if err != nil {
		r.log.Warn().Err(err).Str("job_id", jobID).Msg("artifact retrieval failed")
		return model.NamedBlob{}, err
	}

	filename := FilenameFromDisposition(artifact.ContentDisposition)
	if filename == "" {
		filename = FallbackFilename(jobID, r.extension())
	}

	blob := model.NamedBlob{
		Bytes:    artifact.Body,
		Filename: filename,
		MimeType: mimeFor(artifact.ContentType, filename),
	}
	r.log.Info().
		Str("job_id", jobID).
		Str("filename", blob.Filename).
		Int64("bytes", blob.Size()).
		Msg("artifact retrieved")
	return blob, nil
}

func (r *Retriever) extension() string {
	if r.settings == nil {
		return model.DefaultExtension
	}
	return r.settings.OutputSettings().Extension()
}

// FallbackFilename is the name used when the backend does not suggest one
func FallbackFilename(jobID, ext string) string {
	if ext == "" {
		ext = model.DefaultExtension
	}
	return fmt.Sprintf("video_%s.%s", jobID, ext)
}

// FilenameFromDisposition extracts a safe base filename from a
// Content-Disposition header value. It returns "" when none is present.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}

	var name string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	}
	if name == "" {
		name = scanFilename(header)
	}
	return sanitizeFilename(name)
}

// scanFilename tolerates headers mime.ParseMediaType rejects, such as
// unquoted names with spaces.
func scanFilename(header string) string {
	lower := strings.ToLower(header)
	idx := strings.Index(lower, "filename=")
	if idx < 0 {
		return ""
	}
	value := header[idx+len("filename="):]
	if end := strings.IndexByte(value, ';'); end >= 0 {
		value = value[:end]
	}
	return value
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'`)
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.TrimSpace(name)
}

func mimeFor(contentType, filename string) string {
	if contentType != "" {
		return contentType
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return DefaultMimeType
}
