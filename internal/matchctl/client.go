package matchctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/internal/domain/types"
	"github.com/okian/matchboard/pkg/logger"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// ErrUnknownFeed is returned for a feed format other than json or rss.
var ErrUnknownFeed = errors.New("unknown feed format")

// APIError is a non-2xx response from the board API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("api: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to a running board over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// NewClient creates a client for the board at baseURL.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// do sends a request and returns the response body. Non-2xx responses are
// decoded into *APIError.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	c.log.Debug(ctx, "request done",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.String("requestId", resp.Header.Get("X-Request-ID")),
		logger.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return nil, apiErr
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Stats returns board statistics.
func (c *Client) Stats(ctx context.Context) (types.Stats, error) {
	var st types.Stats
	err := c.getJSON(ctx, "/stats", &st)
	return st, err
}

// Seed loads the demo data. Without force the server refuses when projects
// exist.
func (c *Client) Seed(ctx context.Context, force bool) error {
	_, err := c.do(ctx, http.MethodPost, "/seed?force="+strconv.FormatBool(force), nil)
	return err
}

// Projects lists projects matching f.
func (c *Client) Projects(ctx context.Context, f model.FilterState) ([]model.Project, error) {
	q := url.Values{}
	if f.Text != "" {
		q.Set("text", f.Text)
	}
	if f.Stage != "" {
		q.Set("stage", f.Stage)
	}
	for _, a := range f.Advantages {
		q.Add("advantage", a)
	}
	if f.AdvMatchMode != "" {
		q.Set("mode", f.AdvMatchMode)
	}
	if f.Favorites {
		q.Set("favorites", "true")
	}
	path := "/projects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var ps []model.Project
	err := c.getJSON(ctx, path, &ps)
	return ps, err
}

// Matches returns the ranked matches for the saved profile.
func (c *Client) Matches(ctx context.Context) ([]types.Match, error) {
	var ms []types.Match
	err := c.getJSON(ctx, "/matches", &ms)
	return ms, err
}

// Export returns the raw export bundle.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	data, err := c.do(ctx, http.MethodGet, "/export", nil)
	return data, err
}

// Import applies a bundle with mode ("overwrite" or "merge").
func (c *Client) Import(ctx context.Context, bundle []byte, mode string) error {
	path := "/import"
	if mode != "" {
		path += "?mode=" + url.QueryEscape(mode)
	}
	_, err := c.do(ctx, http.MethodPost, path, bundle)
	return err
}

// Preview summarizes a bundle without applying it.
func (c *Client) Preview(ctx context.Context, bundle []byte) (types.ImportPreview, error) {
	var pv types.ImportPreview
	data, err := c.do(ctx, http.MethodPost, "/import/preview", bundle)
	if err != nil {
		return pv, err
	}
	if err := json.Unmarshal(data, &pv); err != nil {
		return pv, fmt.Errorf("decoding preview: %w", err)
	}
	return pv, nil
}

// Feed fetches the project feed in format "json" or "rss".
func (c *Client) Feed(ctx context.Context, format string) ([]byte, error) {
	var path string
	switch format {
	case "json":
		path = "/feed.json"
	case "rss":
		path = "/feed.xml"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeed, format)
	}
	data, err := c.do(ctx, http.MethodGet, path, nil)
	return data, err
}
