// Package fetch performs single outbound documentation requests with
// an enforced timeout, cancellation, conditional-fetch headers and a
// proactive politeness throttle.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Fetcher = (*Client)(nil)

const userAgent = "pyref-cli (+https://github.com/custodia-labs/pyref-cli)"

// proactiveRate throttles outbound requests so bursts of hover events
// do not hammer documentation hosts.
const proactiveRate = 4 // req/sec, burst 2

// Client is an HTTP fetcher with a per-request timeout floor and a
// shared token-bucket throttle.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// New creates a fetcher whose requests are bounded by timeout. Values
// below the floor are clamped up.
func New(timeout time.Duration) *Client {
	if timeout < domain.MinRequestTimeout {
		timeout = domain.MinRequestTimeout
	}
	return &Client{
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(proactiveRate), 2),
		timeout: timeout,
	}
}

// Fetch retrieves url. Conditional headers from opts turn a 304 into a
// NotModified result; MaxBytes bounds the body read. Timeout expiry
// and ctx cancellation fail like any other error so breakers count
// them uniformly.
func (c *Client) Fetch(ctx context.Context, url string, opts driven.FetchOptions) (*driven.FetchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if opts.ETag != "" {
		req.Header.Set("If-None-Match", opts.ETag)
	}
	if opts.LastModified != "" {
		req.Header.Set("If-Modified-Since", opts.LastModified)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		logger.Debug("fetch %s: not modified", url)
		return &driven.FetchResult{
			NotModified:  true,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var reader io.Reader = resp.Body
	if opts.MaxBytes > 0 {
		reader = io.LimitReader(resp.Body, opts.MaxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	logger.Debug("fetch %s: %d bytes", url, len(body))
	return &driven.FetchResult{
		Body:         body,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}
