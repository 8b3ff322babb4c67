// Package httpx is the transport shared by all upstream API clients.
// One Client per upstream with a fixed timeout, a capped response size and a circuit
// breaker. Requests are attempted once; there are no retries.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"base-wallet-bot/internal/infra/log"
	"base-wallet-bot/internal/infra/metrics"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultTimeout         = 5 * time.Second
	defaultMaxResponseSize = 10 * 1024 * 1024
	userAgent              = "base-wallet-bot/1.0"
)

// HTTPError is returned for any non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error: <nil>"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error (%d)", e.StatusCode)
	}
	body := e.Body
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("http error (%d): %s", e.StatusCode, string(body))
}

// IsStatus reports whether err wraps an HTTPError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == statusCode
}

// ErrDecode wraps payloads that could not be decoded into the expected schema.
var ErrDecode = errors.New("malformed upstream payload")

type Options struct {
	Timeout         time.Duration
	MaxResponseSize int64
	// Breaker trips after this many consecutive failures; 0 means 5.
	MaxConsecutiveFailures uint32
	// BreakerCooldown is how long the breaker stays open; 0 means 30s.
	BreakerCooldown time.Duration
}

// Client performs GET requests against one upstream base URL.
type Client struct {
	name            string
	baseURL         string
	httpClient      *http.Client
	circuitBreaker  *gobreaker.CircuitBreaker
	maxResponseSize int64
}

// New creates a client for the upstream called name (used in logs, metrics and breaker state).
func New(name, baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxResponseSize <= 0 {
		opts.MaxResponseSize = defaultMaxResponseSize
	}
	if opts.MaxConsecutiveFailures == 0 {
		opts.MaxConsecutiveFailures = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}

	maxFailures := opts.MaxConsecutiveFailures
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// 4xx means we asked for something the upstream does not have; the service itself is up.
		IsSuccessful: func(err error) bool {
			var he *HTTPError
			if errors.As(err, &he) {
				return he.StatusCode < 500 && he.StatusCode != http.StatusTooManyRequests
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.LogWarn("Circuit breaker state changed",
				zap.String("upstream", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		name:            name,
		baseURL:         strings.TrimRight(baseURL, "/"),
		circuitBreaker:  circuitBreaker,
		maxResponseSize: opts.MaxResponseSize,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
}

func (c *Client) Name() string { return c.name }

// State exposes the breaker state for health reporting.
func (c *Client) State() gobreaker.State {
	return c.circuitBreaker.State()
}

// GetJSON performs GET baseURL+path?query and decodes the JSON body into dest.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%s %s: %w: %v", c.name, path, ErrDecode, err)
	}
	return nil
}

// Get performs one GET request through the circuit breaker and returns the raw body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	requestID := log.GenerateRequestID()
	startTime := time.Now()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.do(ctx, requestID, path, query, startTime)
	})

	metrics.ObserveUpstream(c.name, err, time.Since(startTime))

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.LogWarn("Circuit breaker rejected request",
				zap.String("request_id", requestID),
				zap.String("upstream", c.name),
				zap.String("endpoint", path),
				zap.Error(err))
		}
		return nil, fmt.Errorf("%s %s: %w", c.name, path, err)
	}
	return result.([]byte), nil
}

func (c *Client) do(ctx context.Context, requestID, path string, query url.Values, startTime time.Time) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	// Query strings may carry API keys, so only the path is logged.
	log.LogRequest(requestID, http.MethodGet, path, zap.String("upstream", c.name))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.LogResponse(requestID, 0, time.Since(startTime).Milliseconds(),
			zap.String("endpoint", path), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	durationMs := time.Since(startTime).Milliseconds()
	if err != nil {
		log.LogResponse(requestID, resp.StatusCode, durationMs, zap.String("endpoint", path), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.LogResponse(requestID, resp.StatusCode, durationMs, zap.String("endpoint", path))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}
