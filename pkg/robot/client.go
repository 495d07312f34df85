package robot

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

	"github.com/teslashibe/go-botblocks/internal/httpc"
	"github.com/teslashibe/go-botblocks/internal/log"
)

const (
	contentTypeJSON = "application/json; charset=UTF-8"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Validator is implemented by response schemas that check their own fields.
type Validator interface {
	Validate() error
}

// Client sends Requests to one robot server.
// It is safe for concurrent use; it holds no state besides its configuration.
type Client struct {
	BaseURL string

	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the shared httpc client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout uses a dedicated HTTP client with the given timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = httpc.NewClient(d)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the server at baseURL (e.g. "http://gopigo:8080").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    httpc.Client,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.L()
	}
	return c
}

// Do sends req and decodes the JSON response into out.
// out may be nil for requests whose response body is ignored. When out
// implements Validator it is validated after decoding.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}

	body, err := req.Encode()
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(c.BaseURL), reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", req.Name, err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}
	if out != nil {
		httpReq.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("robot request failed", "op", req.Name, "request", req.String(), "error", err)
		return fmt.Errorf("%s request failed: %w", req.Name, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("robot request",
		"op", req.Name,
		"request", req.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Op:         req.Name,
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, req.Name, err)
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, req.Name, err)
		}
	}
	return nil
}
