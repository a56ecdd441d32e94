package download

import (
	"context"
	"strings"
	"time"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// Gateway submits new jobs to the backend
type Gateway struct {
	submitter Submitter
	now       func() time.Time
	log       *logger.Logger
}

// NewGateway creates a submission gateway
func NewGateway(submitter Submitter, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{submitter: submitter, now: time.Now, log: log}
}

// Submit validates the URL and makes exactly one submission request.
// Blank input fails with ErrInvalidInput without touching the network.
func (g *Gateway) Submit(ctx context.Context, url string, settings model.OutputSettings) (model.JobHandle, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.JobHandle{}, errors.InvalidInput("url is empty")
	}

	id, err := g.submitter.Submit(ctx, url, settings)
	if err != nil {
		if !errors.IsAny(err, errors.ErrSubmission, errors.ErrConnection) {
			err = errors.Mark(err, errors.ErrSubmission)
		}
		g.log.Warn().Err(err).Str("url", url).Msg("submission failed")
		return model.JobHandle{}, err
	}

	g.log.Info().Str("job_id", id).Str("url", url).Msg("job submitted")
	return model.JobHandle{ID: id, SourceURL: url, CreatedAt: g.now()}, nil
}
