package driven

import "context"

// FetchOptions tune one outbound request.
type FetchOptions struct {
	// ETag, when set, is sent as If-None-Match for conditional fetch.
	ETag string

	// LastModified, when set, is sent as If-Modified-Since.
	LastModified string

	// MaxBytes bounds the response body read. Zero means unbounded.
	MaxBytes int64
}

// FetchResult is the outcome of one request.
type FetchResult struct {
	// Body is the response payload. Empty when NotModified is true.
	Body []byte

	// NotModified reports a 304 answer to a conditional fetch; the
	// caller's cached copy is still valid.
	NotModified bool

	// ETag is the validator the origin returned, if any.
	ETag string

	// LastModified is the origin's Last-Modified header, if any.
	LastModified string
}

// Fetcher performs a single outbound GET with an enforced timeout and
// cancellation. Timeout and cancellation surface as ordinary errors;
// breakers count them like any other failure.
type Fetcher interface {
	// Fetch retrieves url, honoring ctx cancellation and the
	// configured request timeout.
	Fetch(ctx context.Context, url string, opts FetchOptions) (*FetchResult, error)
}
