package platform

import (
	"context"
	"testing"
	"time"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/model"
)

func newTestExpander(items itemsFunc) *PlaylistExpander {
	p := NewPlaylistExpander(nil)
	p.items = items
	return p
}

func TestNewPlaylistExpander(t *testing.T) {
	p := NewPlaylistExpander(nil)
	if p == nil {
		t.Fatal("expander should not be nil")
	}
	if p.timeout != DefaultParseTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultParseTimeout, p.timeout)
	}

	p.SetTimeout(5 * time.Second)
	if p.timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", p.timeout)
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"watch URL with list", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID", true},
		{"playlist URL", "https://www.youtube.com/playlist?list=PLAYLIST_ID", true},
		{"additional parameters", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=1", true},
		{"single video", "https://www.youtube.com/watch?v=VIDEO_ID", false},
		{"other domain with list", "https://example.com/watch?v=VIDEO_ID&list=PLAYLIST_ID", true},
		{"empty list", "https://www.youtube.com/watch?v=VIDEO_ID&list=", false},
		{"empty URL", "", false},
	}

	p := NewPlaylistExpander(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsPlaylistURL(tt.url); got != tt.expected {
				t.Errorf("expected %v, got %v for URL: %s", tt.expected, got, tt.url)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID", "PLAYLIST_ID"},
		{"playlist URL", "https://www.youtube.com/playlist?list=PLAYLIST_ID", "PLAYLIST_ID"},
		{"additional parameters", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=1&t=30", "PLAYLIST_ID"},
		{"multiple list parameters", "https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&list=OTHER_ID", "PLAYLIST_ID"},
		{"surrounding whitespace", "  https://www.youtube.com/playlist?list=PL1  ", "PL1"},
		{"no list parameter", "https://www.youtube.com/watch?v=VIDEO_ID", ""},
		{"empty list parameter", "https://www.youtube.com/watch?v=VIDEO_ID&list=", ""},
		{"empty URL", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tt.url); got != tt.expected {
				t.Errorf("expected %q, got %q for URL: %s", tt.expected, got, tt.url)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	var gotID string
	p := newTestExpander(func(ctx context.Context, id string) ([]model.PlaylistEntry, error) {
		gotID = id
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected expansion to run under a deadline")
		}
		return []model.PlaylistEntry{
			{VideoID: "a1", Title: "First"},
			{VideoID: "", Title: "Private video"},
			{VideoID: "b2", Title: "Second", URL: "https://youtu.be/b2"},
		}, nil
	})

	entries, err := p.Expand(context.Background(), "https://www.youtube.com/playlist?list=PL42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "PL42" {
		t.Errorf("expected playlist id PL42, got %q", gotID)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].URL != "https://www.youtube.com/watch?v=a1" {
		t.Errorf("expected watch URL for a1, got %s", entries[0].URL)
	}
	if entries[1].URL != "https://youtu.be/b2" {
		t.Errorf("expected provided URL to be kept, got %s", entries[1].URL)
	}
}

func TestExpand_Errors(t *testing.T) {
	called := false
	p := newTestExpander(func(context.Context, string) ([]model.PlaylistEntry, error) {
		called = true
		return nil, errors.New("boom")
	})

	_, err := p.Expand(context.Background(), "https://www.youtube.com/watch?v=VIDEO_ID")
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
	if called {
		t.Error("items should not be listed for a non-playlist URL")
	}

	_, err = p.Expand(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err == nil {
		t.Fatal("expected listing error")
	}
}
