package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxBody bounds response bodies read into memory.
const maxBody = 8 << 20

// Client performs GET requests with default headers and retries.
type Client struct {
	http    *http.Client
	headers map[string]string
	backoff Backoff
}

// NewClient returns a Client. Headers are applied to every request; pass
// nil when none are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: headers,
		backoff: DefaultBackoff,
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithRetry sets the attempt count and initial delay, keeping the cap of
// [DefaultBackoff].
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	return c.WithBackoff(Backoff{Attempts: attempts, Initial: delay, Max: DefaultBackoff.Max})
}

// WithBackoff replaces the retry policy.
func (c *Client) WithBackoff(b Backoff) *Client {
	c.backoff = b
	return c
}

// Get fetches url and JSON-decodes the body into v, retrying transient
// failures.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	return c.backoff.Do(ctx, func(int) error {
		body, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, v); err != nil {
			return rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "decode %s", rawURL)
		}
		return nil
	})
}

// GetBytes fetches url and returns the raw body, retrying transient
// failures.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	var out []byte
	err := c.backoff.Do(ctx, func(int) error {
		body, err := c.do(ctx, rawURL)
		out = body
		return err
	})
	return out, err
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, Transient(rerrors.Wrap(rerrors.ErrCodeNetwork, err, "GET %s", rawURL))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp, rawURL); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, Transient(rerrors.Wrap(rerrors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	return body, nil
}

// checkStatus maps a response onto a coded error. Server errors and rate
// limits are transient and honor Retry-After.
func checkStatus(resp *http.Response, rawURL string) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return rerrors.New(rerrors.ErrCodeNotFound, "%s not found", rawURL)
	case code >= 500 || code == http.StatusTooManyRequests:
		return &transientError{
			err:   rerrors.New(rerrors.ErrCodeNetwork, "GET %s: status %d", rawURL, code),
			after: retryAfter(resp.Header),
		}
	default:
		return rerrors.New(rerrors.ErrCodeNetwork, "GET %s: status %d", rawURL, code)
	}
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}

// JoinPath appends escaped path segments to base.
func JoinPath(base string, segments ...string) (string, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u, err := url.JoinPath(base, escaped...)
	if err != nil {
		return "", fmt.Errorf("join %s: %w", base, err)
	}
	return u, nil
}
