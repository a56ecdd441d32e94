package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-jobtracker/internal/errors"
)

func TestObjectName(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		filename string
		want     string
		wantErr  bool
	}{
		{"plain", "", "clip.mp4", "p/clip.mp4", false},
		{"with base", "media/", "clip.mp4", "media/p/clip.mp4", false},
		{"leading slash", "", "/clip.mp4", "p/clip.mp4", false},
		{"backslashes", "", `a\clip.mp4`, "p/a/clip.mp4", false},
		{"escape", "", "../clip.mp4", "", true},
		{"empty", "", "  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := objectName(tt.base, "p", tt.filename)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrInvalidInput), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMinIORequiresEndpointAndBucket(t *testing.T) {
	_, err := NewMinIO(context.Background(), MinIOConfig{Bucket: "b"}, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = NewMinIO(context.Background(), MinIOConfig{Endpoint: "localhost:9000"}, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestNewMinIOHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMinIO(ctx, MinIOConfig{Endpoint: "127.0.0.1:1", Bucket: "b"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
