// Package backend provides driven adapters for the Dishsafe HTTP backend.
//
// One Client serves every store port through lightweight wrapper types so
// they share the HTTP connection pool and rate limiter.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// Default configuration values.
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is kept for messages.
	maxErrorBody = 512
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root URL (default: http://127.0.0.1:8000).
	BaseURL string

	// Timeout is the HTTP client timeout (default: 10s).
	Timeout time.Duration

	// RatePerSecond throttles outgoing requests. Zero disables throttling.
	RatePerSecond float64

	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the Dishsafe backend.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
	if cfg.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return c, nil
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Restaurants returns the restaurant store backed by this client.
func (c *Client) Restaurants() *RestaurantStore {
	return &RestaurantStore{client: c}
}

// Dishes returns the dish store backed by this client.
func (c *Client) Dishes() *DishStore {
	return &DishStore{client: c}
}

// Reviews returns the review store backed by this client.
func (c *Client) Reviews() *ReviewStore {
	return &ReviewStore{client: c}
}

// Images returns the image store backed by this client.
func (c *Client) Images() *ImageStore {
	return &ImageStore{client: c}
}

// Accounts returns the account gateway backed by /sign_up and /login.
func (c *Client) Accounts() *AccountStore {
	return &AccountStore{client: c}
}

// Classifier returns the safety classifier backed by the /check_safety/ endpoint.
func (c *Client) Classifier() *SafetyClassifier {
	return &SafetyClassifier{client: c}
}

// request describes a single backend call.
type request struct {
	method      string
	path        string
	query       url.Values
	cred        *domain.Credential
	body        io.Reader
	contentType string
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, path string, cred *domain.Credential, payload any) (request, error) {
	req := request{method: method, path: path, cred: cred}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return req, fmt.Errorf("marshal request: %w", err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return req, nil
}

// do sends the request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(err)
		}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.cred != nil {
		if r.cred.IsZero() {
			return fmt.Errorf("%w: no credential for %s %s", domain.ErrNotAuthorized, r.method, r.path)
		}
		bearer := &oauth2.Token{AccessToken: r.cred.Token, TokenType: "Bearer"}
		bearer.SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(r.method, r.path, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

// transportError classifies a failure to get any HTTP response.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}

// statusError maps a non-2xx response onto a domain error kind.
func statusError(method, path string, status int, body []byte) error {
	detail := errorDetail(body)
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.ErrNotAuthorized
	case status == http.StatusNotFound:
		kind = domain.ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
	case status == http.StatusConflict:
		kind = domain.ErrAlreadyExists
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = domain.ErrTimeout
	default:
		kind = domain.ErrNetwork
	}
	if detail == "" {
		return fmt.Errorf("%w: %s %s returned %d", kind, method, path, status)
	}
	return fmt.Errorf("%w: %s %s returned %d: %s", kind, method, path, status, detail)
}

// errorDetail extracts the "detail" message from an error body if present.
func errorDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(body))
}
