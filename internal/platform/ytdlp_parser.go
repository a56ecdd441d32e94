package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// itemsFunc lists the entries of a playlist by id
type itemsFunc func(ctx context.Context, playlistID string) ([]model.PlaylistEntry, error)

// PlaylistExpander resolves playlist URLs into individual video URLs so each
// video can be submitted to the backend as its own job.
type PlaylistExpander struct {
	timeout time.Duration
	items   itemsFunc
	log     *logger.Logger
}

// NewPlaylistExpander creates an expander backed by the ytdlp library
func NewPlaylistExpander(log *logger.Logger) *PlaylistExpander {
	if log == nil {
		log = logger.Nop()
	}
	return &PlaylistExpander{
		timeout: DefaultParseTimeout,
		items:   ytdlpItems,
		log:     log,
	}
}

// SetTimeout sets the timeout for a single expansion
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// IsPlaylistURL reports whether url names a playlist
func (p *PlaylistExpander) IsPlaylistURL(rawURL string) bool {
	return ExtractPlaylistID(rawURL) != ""
}

// Expand lists the videos of the playlist at url, in playlist order.
// Entries without a video id are skipped.
func (p *PlaylistExpander) Expand(ctx context.Context, rawURL string) ([]model.PlaylistEntry, error) {
	playlistID := ExtractPlaylistID(rawURL)
	if playlistID == "" {
		return nil, errors.InvalidInput("could not extract playlist ID from URL: " + rawURL)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := p.items(ctx, playlistID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get playlist items for %s", playlistID)
	}

	entries := make([]model.PlaylistEntry, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		if it.URL == "" {
			it.URL = fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID)
		}
		entries = append(entries, it)
	}
	p.log.LogDebugf("Expanded playlist %s into %d entries", playlistID, len(entries))
	return entries, nil
}

// ExtractPlaylistID returns the list= parameter of a playlist URL, or "".
func ExtractPlaylistID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.RawQuery != "" {
		if id := u.Query().Get("list"); id != "" {
			return id
		}
	}

	// Fall back for strings url.Parse rejects
	_, rest, found := strings.Cut(rawURL, PlaylistParam)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(rest, ParamSeparator)
	return id
}

func ytdlpItems(ctx context.Context, playlistID string) ([]model.PlaylistEntry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	entries := make([]model.PlaylistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, model.PlaylistEntry{VideoID: it.VideoID, Title: it.Title})
	}
	return entries, nil
}
