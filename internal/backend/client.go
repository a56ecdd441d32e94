// Package backend speaks the HTTP contract of the media-conversion service:
// job submission, progress queries, artifact download and the root status page.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
)

const (
	// DefaultBaseURL is where the backend listens when nothing is configured
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds submit, progress and health requests
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request id the backend can log
	RequestIDHeader = "X-Request-ID"
)

// Config holds backend client configuration
type Config struct {
	BaseURL string

	// Timeout applies to every request except artifact downloads, which are
	// bounded only by the caller's context.
	Timeout time.Duration

	// RateLimit is requests per second across all calls; zero disables limiting.
	RateLimit float64
	Burst     int

	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client is a backend API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	log        *logger.Logger
}

// Artifact is the raw answer of a file request
type Artifact struct {
	Body               []byte
	ContentType        string
	ContentDisposition string
}

// Health is the backend root status page
type Health struct {
	Message            string `json:"message"`
	Status             string `json:"status"`
	ActiveDownloads    int    `json:"active_downloads"`
	CompletedDownloads int    `json:"completed_downloads"`
	TotalDownloads     int    `json:"total_downloads"`
	DownloadFolder     string `json:"download_folder"`
}

// NewClient creates a new backend client
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.InvalidInput(fmt.Sprintf("backend url %q must be an absolute http(s) url", cfg.BaseURL))
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:    base,
		httpClient: cfg.HTTPClient,
		limiter:    limiter,
		timeout:    cfg.Timeout,
		log:        cfg.Logger,
	}, nil
}

// BaseURL returns the normalized backend address
func (c *Client) BaseURL() string { return c.baseURL }

type submitRequest struct {
	URL      string       `json:"url"`
	Settings wireSettings `json:"settings"`
}

type wireSettings struct {
	Format     string `json:"format,omitempty"`
	Quality    string `json:"quality,omitempty"`
	VideoCodec string `json:"videoCodec,omitempty"`
	AudioOnly  bool   `json:"audioOnly"`
}

type submitResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// errorResponse is the failure body. FastAPI sends a string detail for
// HTTPException and a list of objects for validation errors.
type errorResponse struct {
	Detail interface{} `json:"detail"`
	Error  string      `json:"error"`
}

// Submit asks the backend to start a job and returns its id.
// Exactly one request is made; there is no retry.
func (c *Client) Submit(ctx context.Context, sourceURL string, settings model.OutputSettings) (string, error) {
	body, err := json.Marshal(submitRequest{
		URL: sourceURL,
		Settings: wireSettings{
			Format:     settings.Format,
			Quality:    settings.Quality,
			VideoCodec: settings.VideoCodec,
			AudioOnly:  settings.AudioOnly,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal submission")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, respBody, _, err := c.do(ctx, http.MethodPost, c.baseURL+"/download", body)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", errors.Submission(failureReason(status, respBody, "submission rejected"))
	}

	var resp submitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", errors.Submission("invalid submission response")
	}
	if strings.TrimSpace(resp.ID) == "" {
		return "", errors.Submission("backend returned no job id")
	}

	c.log.Debug().Str("job_id", resp.ID).Str("message", resp.Message).Msg("job submitted")
	return resp.ID, nil
}

type progressResponse struct {
	Progress       *float64 `json:"progress"`
	Status         *string  `json:"status"`
	Title          *string  `json:"title"`
	Duration       *float64 `json:"duration"`
	DurationString *string  `json:"duration_string"`
	Thumbnail      *string  `json:"thumbnail"`
	Uploader       *string  `json:"uploader"`
	ViewCount      *float64 `json:"view_count"`
	FileSize       *float64 `json:"filesize"`
	Speed          *float64 `json:"speed"`
	ETA            *float64 `json:"eta"`
	DownloadURL    *string  `json:"download_url"`

	// downloadUrl is what the web proxy in front of the service renames it to
	DownloadURLAlt *string `json:"downloadUrl"`
	Error          *string `json:"error"`
	Removed        *bool   `json:"removed"`
}

// Progress queries the current state of one job
func (c *Client) Progress(ctx context.Context, id string) (model.ProgressUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, respBody, _, err := c.do(ctx, http.MethodGet, c.baseURL+"/progress/"+url.PathEscape(id), nil)
	if err != nil {
		return model.ProgressUpdate{}, err
	}
	if status < 200 || status > 299 {
		return model.ProgressUpdate{}, errors.Poll(failureReason(status, respBody, "progress query failed"))
	}

	var resp progressResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return model.ProgressUpdate{}, errors.Poll("invalid progress response")
	}

	return c.toUpdate(id, resp), nil
}

func (c *Client) toUpdate(id string, resp progressResponse) model.ProgressUpdate {
	u := model.ProgressUpdate{
		ID:             id,
		Progress:       resp.Progress,
		Title:          resp.Title,
		Duration:       resp.Duration,
		DurationString: resp.DurationString,
		Thumbnail:      resp.Thumbnail,
		Uploader:       resp.Uploader,
		Speed:          resp.Speed,
		DownloadURL:    resp.DownloadURL,
		Error:          resp.Error,
		Removed:        resp.Removed,
	}
	if u.DownloadURL == nil {
		u.DownloadURL = resp.DownloadURLAlt
	}
	if resp.Status != nil {
		st, err := model.ParseJobStatus(*resp.Status)
		if err != nil {
			c.log.Warn().Str("job_id", id).Str("status", *resp.Status).Msg("ignoring unknown status")
		} else {
			u.Status = &st
		}
	}
	if resp.ViewCount != nil {
		v := int64(*resp.ViewCount)
		u.ViewCount = &v
	}
	if resp.FileSize != nil {
		v := int64(*resp.FileSize)
		u.FileSize = &v
	}
	if resp.ETA != nil {
		v := int(*resp.ETA)
		u.ETA = &v
	}
	return u
}

// Fetch downloads the artifact of a job. An absolute http(s) ref is fetched
// as is; anything else resolves to {base}/file/{id}.
func (c *Client) Fetch(ctx context.Context, id, ref string) (*Artifact, error) {
	target := c.baseURL + "/file/" + url.PathEscape(id)
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		target = ref
	}

	status, body, header, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrRetrieval)
	}

	switch {
	case status == http.StatusNotFound:
		return nil, errors.RetrievalNotFound(failureReason(status, body, "artifact not found"))
	case status < 200 || status > 299:
		return nil, errors.RetrievalServer(failureReason(status, body, "artifact download failed"))
	}

	return &Artifact{
		Body:               body,
		ContentType:        header.Get("Content-Type"),
		ContentDisposition: header.Get("Content-Disposition"),
	}, nil
}

// Health fetches the backend root status page
func (c *Client) Health(ctx context.Context) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, body, _, err := c.do(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, errors.Newf("backend unhealthy: %s", failureReason(status, body, "status page unavailable"))
	}

	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, errors.Wrap(err, "failed to decode status page")
	}
	return &h, nil
}

// do runs one request through the limiter and returns the fully read body.
// Any transport failure, including timeouts, is marked ErrConnection.
func (c *Client) do(ctx context.Context, method, target string, body []byte) (int, []byte, http.Header, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, nil, errors.Connection(err, "rate limiter")
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, nil, errors.Wrap(err, "failed to create request")
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, errors.Connection(err, method+" "+target)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, errors.Connection(err, "read "+target)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	return resp.StatusCode, respBody, resp.Header, nil
}

// failureReason extracts the backend's detail message from a failure body
func failureReason(status int, body []byte, fallback string) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		switch d := resp.Detail.(type) {
		case string:
			if d != "" {
				return d
			}
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
		if resp.Error != "" {
			return resp.Error
		}
	}
	return fmt.Sprintf("%s (HTTP %d)", fallback, status)
}
