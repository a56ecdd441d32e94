package sink

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// MinIOConfig configures the object storage sink
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	BasePath        string
	Retry           RetryConfig
}

// RetryConfig bounds connection attempts while the storage comes up
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// MinIO uploads artifacts to a bucket under BasePath/<random prefix>/<filename>
type MinIO struct {
	client   *minio.Client
	bucket   string
	basePath string
	log      *logger.Logger
}

// NewMinIO connects to the storage, creating the bucket when missing.
// Connection attempts back off exponentially until Retry.MaxRetries.
func NewMinIO(ctx context.Context, cfg MinIOConfig, log *logger.Logger) (*MinIO, error) {
	if log == nil {
		log = logger.Nop()
	}
	client, err := newMinIOClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	basePath := strings.Trim(cfg.BasePath, "/")
	if basePath != "" {
		basePath += "/"
	}
	return &MinIO{client: client, bucket: cfg.Bucket, basePath: basePath, log: log}, nil
}

func newMinIOClient(ctx context.Context, cfg MinIOConfig, log *logger.Logger) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.InvalidInput("empty MinIO endpoint")
	}
	if cfg.Bucket == "" {
		return nil, errors.InvalidInput("empty MinIO bucket")
	}
	if cfg.Retry.MaxRetries <= 0 {
		cfg.Retry.MaxRetries = 5
	}
	if cfg.Retry.InitialInterval <= 0 {
		cfg.Retry.InitialInterval = time.Second
	}
	if cfg.Retry.MaxInterval <= 0 {
		cfg.Retry.MaxInterval = 30 * time.Second
	}

	var lastErr error
	interval := cfg.Retry.InitialInterval

	for attempt := range cfg.Retry.MaxRetries {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "context canceled before MinIO init")
		}
		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			lastErr = errors.Wrap(err, "create MinIO client")
		} else if err := ensureBucket(ctx, client, cfg.Bucket); err != nil {
			lastErr = err
		} else {
			return client, nil
		}

		log.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("MinIO not ready")
		if attempt < cfg.Retry.MaxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "context canceled while waiting to retry MinIO")
			case <-time.After(interval):
				interval = min(interval*2, cfg.Retry.MaxInterval)
			}
		}
	}

	return nil, errors.Mark(
		errors.Wrapf(lastErr, "init MinIO failed after %d attempts", cfg.Retry.MaxRetries),
		errors.ErrConnection,
	)
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, "check bucket exists")
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, "create bucket")
	}
	return nil
}

// Save uploads blob and returns its s3:// location
func (s *MinIO) Save(ctx context.Context, blob model.NamedBlob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectName, err := objectName(s.basePath, uuid.NewString(), blob.Filename)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(blob.Bytes)
	info, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(blob.Bytes), blob.Size(), minio.PutObjectOptions{
		ContentType:  blob.MimeType,
		UserMetadata: map[string]string{"sha256": hex.EncodeToString(sum[:])},
	})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}

	location := "s3://" + s.bucket + "/" + info.Key
	s.log.Info().Str("location", location).Int64("bytes", info.Size).Msg("artifact uploaded")
	return location, nil
}

// objectName builds basePath + prefix + "/" + filename, rejecting names that
// escape the prefix.
func objectName(basePath, prefix, filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", errors.InvalidInput("empty filename")
	}
	clean := path.Clean(strings.ReplaceAll(filename, "\\", "/"))
	if strings.HasPrefix(clean, "..") {
		return "", errors.InvalidInput("invalid filename: " + filename)
	}
	clean = strings.TrimLeft(clean, "/")
	return basePath + prefix + "/" + clean, nil
}
