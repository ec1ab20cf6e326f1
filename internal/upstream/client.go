package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ltgt/portal-gateway/internal/schema"
)

// DefaultTimeout bounds every backend call; the gateway surfaces an
// expiry as a timeout to its own client.
const DefaultTimeout = 10 * time.Second

// Client is an HTTP client for the backend portal API. Successful
// responses are returned as raw bytes so callers can run contract
// checks and, where allowed, pass the body through untouched.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one backend request. token, when non-empty, is forwarded
// unchanged as a bearer credential. Non-2xx responses come back as
// *APIError; timeouts as ErrTimeout.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req schema.LoginRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/auth/login", "", req)
}

// Register creates a new user on behalf of the authenticated caller.
func (c *Client) Register(ctx context.Context, token string, req schema.RegisterRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/auth/register", token, req)
}

// Me returns the profile behind the token.
func (c *Client) Me(ctx context.Context, token string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/auth/me", token, nil)
}

// ListProducts runs the catalog query.
func (c *Client) ListProducts(ctx context.Context, token string, q schema.ProductQuery) ([]byte, error) {
	path := "/products/list"
	if params := q.Encode(); len(params) > 0 {
		path += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, path, token, nil)
}

// GetProduct fetches one product by ID.
func (c *Client) GetProduct(ctx context.Context, token, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/products/detail/"+url.PathEscape(id), token, nil)
}

// CreateProduct creates a catalog item.
func (c *Client) CreateProduct(ctx context.Context, token string, req schema.CreateProductRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/products/create", token, req)
}

// UpdateProduct applies a partial update.
func (c *Client) UpdateProduct(ctx context.Context, token, id string, req schema.UpdateProductRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, "/products/update/"+url.PathEscape(id), token, req)
}

// DeleteProduct removes a catalog item.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, "/products/delete/"+url.PathEscape(id), token, nil)
}

// ListBrands fetches the brand reference data.
func (c *Client) ListBrands(ctx context.Context, token string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/brands", token, nil)
}

// ListCategories fetches the category reference data.
func (c *Client) ListCategories(ctx context.Context, token string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/categories", token, nil)
}
