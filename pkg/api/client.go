package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope is the {success, data|error} wrapper every backend response uses.
// Data is left raw for the caller to decode.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Err returns an *AppError when the envelope reports failure, nil otherwise.
func (e *Envelope) Err() error {
	if e.Success {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = "request failed"
	}
	return &AppError{Message: msg}
}

// Decode unmarshals the envelope's data payload into dest.
func (e *Envelope) Decode(dest interface{}) error {
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// Client wraps outbound calls to the store backend. It owns the active base
// URL, which the connection monitor may swap after a successful failover.
// The client never retries on its own.
type Client struct {
	httpClient     *http.Client
	logger         *zap.Logger
	requestTimeout time.Duration
	connectTimeout time.Duration

	mu      sync.RWMutex
	baseURL string
}

// NewClient creates a client pointed at the configured primary endpoint.
func NewClient(cfg *config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     &http.Client{},
		logger:         logger,
		requestTimeout: cfg.RequestTimeout,
		connectTimeout: cfg.ConnectTimeout,
		baseURL:        cfg.PrimaryURL,
	}
}

// BaseURL returns the currently active endpoint.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL swaps the active endpoint. Called by the connection monitor
// after a fallback probe succeeds.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	c.baseURL = u
	c.mu.Unlock()
}

// Call issues a request against the active endpoint and returns the parsed
// envelope. The success flag is left for the caller to interpret. Transport
// failures are normalized to ErrTimeout, ErrUnreachable or *HTTPError.
func (c *Client) Call(ctx context.Context, method, path string, body interface{}) (*Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	return c.do(ctx, method, c.BaseURL()+path, body)
}

// ProbeEndpoint issues a bare liveness request against the given base URL
// with the shorter connect timeout. Used by the connection monitor to test
// endpoints that are not (yet) active.
func (c *Client) ProbeEndpoint(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()
	_, err := c.do(ctx, http.MethodGet, baseURL+"/", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}) (*Envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		normalized := normalizeTransportError(err)
		c.logger.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.String("request_id", requestID),
			zap.Error(normalized))
		return nil, normalized
	}
	defer resp.Body.Close()

	c.logger.Debug("Backend request",
		zap.String("method", method),
		zap.String("url", url),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to parse response envelope: %w", err)
	}

	return &env, nil
}

// normalizeTransportError maps a raw http.Client error onto the client's
// error taxonomy so no transport detail leaks upward.
func normalizeTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
