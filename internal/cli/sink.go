package cli

import (
	"context"
	"time"

	"github.com/ytget/yt-jobtracker/internal/config"
	"github.com/ytget/yt-jobtracker/internal/download"
	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/sink"
)

// MinIO connection retry while the storage comes up
const (
	minioMaxRetries      = 5
	minioInitialInterval = 500 * time.Millisecond
	minioMaxInterval     = 5 * time.Second
)

// newSink builds the configured sink. kind and dir override the config when set.
func (e *env) newSink(ctx context.Context, kind, dir string) (download.Sink, error) {
	if kind == "" {
		kind = e.cfg.Sink.Kind
	}
	if dir == "" {
		dir = e.cfg.Output.Dir
	}

	switch kind {
	case config.SinkLocal:
		return sink.NewLocal(dir, e.log.Named("sink")), nil
	case config.SinkMinIO:
		m := e.cfg.Sink.MinIO
		s, err := sink.NewMinIO(ctx, sink.MinIOConfig{
			Endpoint:        m.Endpoint,
			AccessKeyID:     m.AccessKeyID,
			SecretAccessKey: m.SecretAccessKey,
			UseSSL:          m.UseSSL,
			Bucket:          m.Bucket,
			BasePath:        m.BasePath,
			Retry: sink.RetryConfig{
				MaxRetries:      minioMaxRetries,
				InitialInterval: minioInitialInterval,
				MaxInterval:     minioMaxInterval,
			},
		}, e.log.Named("sink"))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.InvalidInput("unknown sink " + kind + ", want local or minio")
	}
}
