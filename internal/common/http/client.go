// internal/common/http/client.go
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"ambit-engine/internal/common/logger"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// GetWithRetry issues a GET and retries on network errors, 429 and 5xx with
// linear backoff (2s, 4s, 6s, ...). Upstream feeds rate-limit aggressively
// and occasionally return gateway timeouts as HTML, so both paths retry.
func (c *Client) GetWithRetry(ctx context.Context, url string, attempts int, log logger.Logger) ([]byte, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		body, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable || i == attempts {
			break
		}

		backoff := time.Duration(i) * 2 * time.Second
		if log != nil {
			log.Warn("feed request failed, retrying", map[string]interface{}{
				"attempt":     i,
				"maxAttempts": attempts,
				"backoff":     backoff.String(),
				"error":       err.Error(),
			})
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("request failed after %d attempt(s): %w", attempts, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode == http.StatusOK {
		return data, false, nil
	}

	transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	snippet := string(data)
	if len(snippet) > 220 {
		snippet = snippet[:220]
	}
	return nil, transient, fmt.Errorf("status %d: %s", resp.StatusCode, snippet)
}
