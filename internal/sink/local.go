package sink

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
	"github.com/ytget/yt-jobtracker/internal/platform"
)

// tempPattern names in-flight writes so half-written files are recognisable
const tempPattern = ".ytj-*.part"

// Local writes artifacts into a directory. Existing files are never
// overwritten; a numbered suffix is added instead.
type Local struct {
	dir func() string
	log *logger.Logger

	// serializes name selection and rename so two saves cannot pick the same name
	mu sync.Mutex
}

// NewLocal creates a sink writing into a fixed directory
func NewLocal(dir string, log *logger.Logger) *Local {
	return NewLocalFunc(func() string { return dir }, log)
}

// NewLocalFunc creates a sink whose directory is resolved on every save,
// so a changed download directory takes effect immediately.
func NewLocalFunc(dir func() string, log *logger.Logger) *Local {
	if log == nil {
		log = logger.Nop()
	}
	return &Local{dir: dir, log: log}
}

// Save writes blob and returns the final path
func (l *Local) Save(ctx context.Context, blob model.NamedBlob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(blob.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", errors.InvalidInput("artifact has no filename")
	}

	dir := l.dir()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(blob.Bytes); err != nil {
		_ = tmp.Close()
		return "", errors.Wrap(err, "failed to write artifact")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close artifact")
	}
	if err := os.Chmod(tmpName, platform.DefaultFilePermissions); err != nil {
		return "", errors.Wrap(err, "failed to set artifact permissions")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	target, err := platform.UniquePath(dir, name)
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", errors.Wrapf(err, "failed to move artifact to %s", target)
	}
	committed = true

	if err := platform.NotifyMediaScanner(target); err != nil {
		l.log.Debug().Err(err).Str("path", target).Msg("media scanner notification failed")
	}
	l.log.Info().Str("path", target).Int64("bytes", blob.Size()).Msg("artifact saved")
	return target, nil
}
