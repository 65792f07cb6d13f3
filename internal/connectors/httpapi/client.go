package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"

	"github.com/custodia-labs/cardsync/internal/clock"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is kept in APIError.
	maxErrorBody = 512
)

// Config configures a Client.
type Config struct {
	// Timeout bounds one HTTP exchange, redirect included.
	Timeout time.Duration

	// Headers are added to every request, redirect included.
	Headers map[string]string

	// MaxRetries is how many times a transient failure is retried.
	// Network errors and 5xx responses are transient; 429 and 4xx are not.
	MaxRetries int

	// InitialBackoff is the first retry interval, doubled on each retry.
	InitialBackoff time.Duration

	// ManualRedirect disables automatic redirects and follows at most one
	// by hand. A Location that is missing or equal to the request URL is
	// not followed and the original response is used.
	ManualRedirect bool
}

// Client performs catalog API requests.
type Client struct {
	http  *http.Client
	cfg   Config
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Redirect handling is
// still applied from Config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithSleeper replaces the retry wait, for tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		http:  &http.Client{},
		cfg:   cfg,
		sleep: clock.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.Timeout = cfg.Timeout
	if cfg.ManualRedirect {
		c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return c
}

// GetJSON fetches rawURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return transportError("decode response", err)
	}
	return nil
}

// Get fetches rawURL and returns the response body, retrying transient
// failures according to Config.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	if c.cfg.InitialBackoff > 0 {
		b.InitialInterval = c.cfg.InitialBackoff
	}
	b.Multiplier = 2
	b.RandomizationFactor = 0

	for attempt := 0; ; attempt++ {
		body, err := c.getOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if attempt >= c.cfg.MaxRetries || !isTransient(ctx, err) {
			return nil, err
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return nil, err
		}
		if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
			return nil, sleepErr
		}
	}
}

func (c *Client) getOnce(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.send(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if c.cfg.ManualRedirect && isRedirect(resp.StatusCode) {
		target, ok := redirectTarget(resp, rawURL)
		if ok {
			_ = drainAndClose(resp)
			resp, err = c.send(ctx, target)
			if err != nil {
				return nil, err
			}
			if isRedirect(resp.StatusCode) {
				_ = drainAndClose(resp)
				return nil, transportError("follow redirect", fmt.Errorf("%w: %s", ErrTooManyRedirects, target))
			}
			rawURL = target
		} else {
			// Not followed: the redirect response body is the page.
			return readBody(resp)
		}
	}

	if err := classify(resp, rawURL); err != nil {
		_ = drainAndClose(resp)
		return nil, err
	}
	return readBody(resp)
}

func (c *Client) send(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, transportError("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.cfg.Headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError("GET "+rawURL, err)
	}
	return resp, nil
}

// classify maps a response status onto the package's error types.
func classify(resp *http.Response, rawURL string) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{URL: rawURL, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			URL:        rawURL,
		}
	}
	return nil
}

func redirectTarget(resp *http.Response, rawURL string) (string, bool) {
	location := resp.Header.Get("Location")
	if location == "" {
		return "", false
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", false
	}
	target := base.ResolveReference(ref).String()
	if target == rawURL {
		return "", false
	}
	return target, true
}

func isRedirect(status int) bool {
	return status >= 300 && status <= 399
}

// isTransient reports whether a failed exchange is worth retrying.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if IsRateLimited(err) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return !errors.Is(err, ErrTooManyRedirects)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("read body", err)
	}
	return body, nil
}

func drainAndClose(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
