package renderer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPOptions configures the plain-HTTP rendering engine.
type HTTPOptions struct {
	// UserAgent sent with every request (default: a desktop Chrome UA).
	UserAgent string

	// MaxBodyBytes caps how much of a response body is read (default: 5 MiB).
	MaxBodyBytes int64

	// Timeout is a safety ceiling on the underlying client. Callers normally
	// bound requests with their own context deadline (default: 60s).
	Timeout time.Duration
}

// DefaultHTTPOptions returns the default HTTP engine configuration.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		UserAgent:    defaultUserAgent,
		MaxBodyBytes: 5 * 1024 * 1024,
		Timeout:      60 * time.Second,
	}
}

// HTTPFactory creates plain-HTTP handles sharing one transport.
type HTTPFactory struct {
	opts   HTTPOptions
	client *http.Client
}

// NewHTTPFactory creates the factory and its shared HTTP client.
func NewHTTPFactory(opts HTTPOptions) *HTTPFactory {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5 * 1024 * 1024
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	return &HTTPFactory{
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// New returns a handle backed by the shared client.
func (f *HTTPFactory) New(ctx context.Context) (Renderer, error) {
	return &HTTPRenderer{opts: f.opts, client: f.client}, nil
}

// Close releases idle connections held by the shared client.
func (f *HTTPFactory) Close(ctx context.Context) error {
	f.client.CloseIdleConnections()
	return nil
}

// HTTPRenderer fetches markup with plain GET requests. Block pages are often
// served with error status codes but meaningful bodies, so the body is
// returned regardless of status and classification happens downstream.
type HTTPRenderer struct {
	opts   HTTPOptions
	client *http.Client
}

// Navigate performs a GET request and returns the response body.
func (r *HTTPRenderer) Navigate(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", r.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.opts.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pageURL, err)
	}

	return string(body), nil
}

// Evaluate is unsupported without a script engine.
func (r *HTTPRenderer) Evaluate(ctx context.Context, script string, out any) error {
	return ErrEvaluateUnsupported
}

// Close is a no-op; the transport belongs to the factory.
func (r *HTTPRenderer) Close(ctx context.Context) error {
	return nil
}
