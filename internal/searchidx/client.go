package searchidx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"ctdoc/internal/config"
)

// Client talks to the search index over its REST API. Requests are paced
// client-side and retried with backoff on transient statuses.
type Client struct {
	baseURL    string
	index      string
	httpClient *http.Client

	mu       sync.Mutex
	nextAt   time.Time
	interval time.Duration
}

func NewClient(cfg config.Config) *Client {
	rps := cfg.SearchRateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.SearchBaseURL, "/"),
		index:      cfg.SearchIndex,
		httpClient: &http.Client{Timeout: time.Duration(cfg.SearchTimeoutMs) * time.Millisecond},
		interval:   time.Second / time.Duration(rps),
	}
}

func (c *Client) Index() string { return c.index }

func (c *Client) pace() {
	c.mu.Lock()
	now := time.Now()
	at := now
	if c.nextAt.After(now) {
		at = c.nextAt
	}
	c.nextAt = at.Add(c.interval)
	c.mu.Unlock()

	if wait := time.Until(at); wait > 0 {
		time.Sleep(wait)
	}
}

// statusError carries the response status so callers can treat 404 as
// absence rather than failure.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("search index status %d: %s", e.status, e.body)
}

func IsNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		blob, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = blob
	}

	var lastErr error
	for attempt := 1; attempt <= 4; attempt++ {
		c.pace()

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		if isRetryableStatus(resp.StatusCode) && attempt < 4 {
			backoff := time.Duration(200*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
			time.Sleep(backoff)
			lastErr = fmt.Errorf("search index status %d", resp.StatusCode)
			continue
		}
		return nil, &statusError{status: resp.StatusCode, body: string(respBody)}
	}

	if lastErr == nil {
		lastErr = errors.New("search index request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
