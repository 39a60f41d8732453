package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gamehub/internal/logging"
)

const (
	defaultTimeout = 5 * time.Second
	defaultBackoff = 200 * time.Millisecond
	maxRetries     = 5
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPConfig controls how the client reaches the game server.
type HTTPConfig struct {
	URL        string
	Timeout    time.Duration
	Retries    int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// HTTPClient asks the game server for a session by POSTing to its allocation
// endpoint and reading {"link": "..."} from the response.
type HTTPClient struct {
	url      string
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	client   httpDoer
	logger   *slog.Logger
}

type allocateResponse struct {
	Link string `json:"link"`
}

func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	if retries > maxRetries {
		retries = maxRetries
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	var client httpDoer = &http.Client{}
	if cfg.HTTPClient != nil {
		client = cfg.HTTPClient
	}
	return &HTTPClient{
		url:      strings.TrimSpace(cfg.URL),
		timeout:  timeout,
		attempts: retries + 1,
		backoff:  backoff,
		client:   client,
		logger:   cfg.Logger,
	}
}

func (c *HTTPClient) Allocate(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		link, err := c.allocateOnce(ctx)
		if err == nil {
			return link, nil
		}
		lastErr = err
		if attempt == c.attempts || ctx.Err() != nil {
			break
		}
		logging.Warn(logging.FromContext(ctx, c.logger), "gateway allocate retry",
			logging.FieldAttempt, attempt, "max_attempts", c.attempts, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return "", lastErr
}

func (c *HTTPClient) allocateOnce(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gateway: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload allocateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("gateway: decode response: %w", err)
	}
	link := strings.TrimSpace(payload.Link)
	if link == "" {
		return "", ErrNoEndpoint
	}
	return link, nil
}
