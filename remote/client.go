package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// maxPayload bounds a snapshot download.
const maxPayload = 8 << 20

type ClientOptions struct {
	BaseURL string
	APIKey  string
	// Path of the snapshot endpoint, "/v1/catalog" when empty.
	Path string
	// RequestsPerSecond paces calls to the upstream; 0 disables pacing.
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client downloads catalog snapshots from an upstream HTTP service.
type Client struct {
	key     string
	url     string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewClient(opts ClientOptions) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	rc.Logger = nil
	rc.HTTPClient.Timeout = 6 * time.Second
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	path := opts.Path
	if path == "" {
		path = "/v1/catalog"
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &Client{
		key:     opts.APIKey,
		url:     strings.TrimRight(opts.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		http:    rc,
		limiter: limiter,
	}
}

// FetchSnapshot returns the raw snapshot payload.
func (c *Client) FetchSnapshot(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	if c.key != "" {
		req.Header.Set("apikey", c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog upstream error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return ioReadAllLimit(resp.Body, maxPayload)
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
