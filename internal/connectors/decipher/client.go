package decipher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

const (
	// DefaultBaseURL is the Decipher REST API root.
	DefaultBaseURL = "https://sw2.decipherinc.com/api/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// HeaderAPIKey carries the API key on every request.
	HeaderAPIKey = "x-apikey"

	userAgent = "decipher-finetune/1.0"
)

// Client is an HTTP client for the Decipher API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Decipher API client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimiter returns the shared rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// get performs a GET with rate limiting and bounded retries for
// transient failures. Auth failures and 404s are never retried.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := RetryDelay << (attempt - 1)
			logger.Debug("retrying %s in %s (attempt %d/%d)", path, delay, attempt, MaxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, err := c.doOnce(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

func (c *Client) doOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.wrapStatus(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// wrapStatus converts a non-200 response to a typed error, attaching the
// domain sentinel for statuses the orchestrator branches on.
func (c *Client) wrapStatus(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		URL:        resp.Request.URL.String(),
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Message = "invalid or expired API key"
		return fmt.Errorf("%w: %w", domain.ErrAuthFailed, apiErr)
	case http.StatusForbidden:
		apiErr.Message = "no permission to access this survey"
		return fmt.Errorf("%w: %w", domain.ErrAuthFailed, apiErr)
	case http.StatusNotFound:
		apiErr.Message = "survey or XML file not found"
		return fmt.Errorf("%w: %w", domain.ErrNotFound, apiErr)
	default:
		return apiErr
	}
}
