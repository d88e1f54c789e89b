package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
)

const (
	orderPath = "/api/order"
	loginPath = "/api/admin/login"

	maxResponseBodySize = 64 * 1024
)

// UnreachableHint is shown when no backend candidate answered.
const UnreachableHint = "Order was not sent. Check that the backend is running on " +
	"http://127.0.0.1:3000 or http://localhost:3000"

var ErrNoCandidates = errors.New("no backend candidates")

// NetworkError means a candidate could not be reached at all.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("backend unreachable: %v", e.Err)
	}
	return fmt.Sprintf("backend unreachable at %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is a non-success answer from a candidate. Message is the
// backend's "error" field when it sent one.
type HTTPStatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d @ %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("HTTP %d @ %s", e.StatusCode, e.Endpoint)
}

// tryNext reports whether another candidate may succeed where this one
// failed: server errors and missing routes, not client errors.
func (e *HTTPStatusError) tryNext() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusNotFound
}

// Client posts to the backend, falling back through the resolver's
// candidates.
type Client struct {
	httpClient *http.Client
	resolver   *Resolver
	log        *slog.Logger
}

// NewClient creates a client. A nil httpClient gets a 15s timeout.
func NewClient(resolver *Resolver, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		resolver:   resolver,
		log:        log,
	}
}

// SubmitOrder sends an order to the first candidate that accepts it.
func (c *Client) SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResponse, error) {
	var resp models.OrderResponse
	if err := c.post(ctx, orderPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login opens an admin session.
func (c *Client) Login(ctx context.Context, login, password string) (*AdminSession, error) {
	var resp loginResponse
	body := map[string]string{"login": login, "password": password}
	if err := c.post(ctx, loginPath, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		return nil, errors.New("login response carried no session")
	}
	return &AdminSession{Token: resp.Token, ExpiresAt: resp.ExpiresAt}, nil
}

// post tries each candidate in turn. The last error is returned when all
// of them fail.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	lastErr := ErrNoCandidates
	for _, base := range c.resolver.Candidates() {
		if err := ctx.Err(); err != nil {
			return err
		}

		endpoint, err := c.resolver.Endpoint(base, path)
		if err != nil {
			lastErr = &NetworkError{Err: err}
			c.log.Warn("skipping backend candidate", "base", base, "error", err)
			continue
		}

		err = c.do(ctx, endpoint, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) && !statusErr.tryNext() {
			return err
		}
		c.log.Warn("backend candidate failed", "endpoint", endpoint, "error", err)
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPStatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	// a 2xx means the backend took the order; never resend it elsewhere
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			c.log.Warn("backend accepted request with unreadable body",
				"endpoint", endpoint,
				"status", resp.StatusCode,
				"error", err,
			)
		}
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		return strings.TrimSpace(payload.Error)
	}
	return ""
}

// UserMessage picks the most specific text to show for a failed submission.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return statusErr.Message
		}
		return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	}

	return UnreachableHint
}
