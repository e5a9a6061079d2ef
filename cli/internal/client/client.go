// ABOUTME: HTTP client for the wusuleable same-origin API
// ABOUTME: Wraps BFF calls with bearer auth and uniform API error handling

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/markalston/wusuleable-web/models"
)

// ErrNotAuthenticated is returned by calls that need a token when none is
// stored.
var ErrNotAuthenticated = errors.New("not signed in")

// TokenSource supplies the current session token, or "" when signed out.
type TokenSource interface {
	Get() string
}

// Client is the API client for the wusuleable BFF.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}
}

// BaseURL returns the BFF origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is any non-2xx answer. Body holds the parsed JSON, or the raw
// text when the body is not JSON, or nil when it is empty.
type APIError struct {
	Status  int
	Body    any
	Message string
	raw     []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// Envelope interprets the body as the upstream's standard envelope. ok is
// false when the body is not one.
func (e *APIError) Envelope() (*models.ApiResult[json.RawMessage], bool) {
	obj, isObject := e.Body.(map[string]any)
	if !isObject {
		return nil, false
	}
	if _, has := obj["isSucceeded"]; !has {
		return nil, false
	}
	var env models.ApiResult[json.RawMessage]
	if err := json.Unmarshal(e.raw, &env); err != nil {
		return nil, false
	}
	return &env, true
}

func newAPIError(status int, raw []byte) *APIError {
	e := &APIError{Status: status, raw: raw}
	if len(raw) > 0 {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			e.Body = parsed
		} else {
			e.Body = string(raw)
		}
	}
	if obj, ok := e.Body.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			e.Message = msg
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("Request failed (%d)", status)
	}
	return e
}

// Login calls POST /api/auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var result models.LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", false, models.LoginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout calls POST /api/auth/logout with the current token, if any.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", false, nil, nil)
}

// CreateUser validates locally, then calls POST /api/users/createuser.
func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.CreateUserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var result models.CreateUserResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/createuser", false, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateCustomer calls POST /api/customers. The response shape is not
// fixed, so it is returned raw.
func (c *Client) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/customers", true, req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCustomers calls GET /api/customers/getcustomers.
func (c *Client) GetCustomers(ctx context.Context) (*models.GetCustomersResponse, error) {
	var result models.GetCustomersResponse
	if err := c.do(ctx, http.MethodGet, "/api/customers/getcustomers", true, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkPurchased calls POST /api/billing/mark-purchased.
func (c *Client) MarkPurchased(ctx context.Context, req models.MarkPurchasedRequest) (*models.MarkPurchasedResponse, error) {
	var result models.MarkPurchasedResponse
	if err := c.do(ctx, http.MethodPost, "/api/billing/mark-purchased", true, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPricing calls GET /api/billing/pricing anonymously so the BFF may
// serve it from cache.
func (c *Client) GetPricing(ctx context.Context) (*models.PricingResponse, error) {
	var result models.PricingResponse
	if err := c.doAnonymous(ctx, http.MethodGet, "/api/billing/pricing", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var result models.HealthResponse
	if err := c.doAnonymous(ctx, http.MethodGet, "/api/health", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Get()
}

func (c *Client) doAnonymous(ctx context.Context, method, path string, out any) error {
	return c.send(ctx, method, path, "", nil, out)
}

// do sends in as JSON (when non-nil) with the current token and decodes
// the response into out (when non-nil). requireToken fails fast when
// signed out.
func (c *Client) do(ctx context.Context, method, path string, requireToken bool, in, out any) error {
	token := c.token()
	if requireToken && token == "" {
		return ErrNotAuthenticated
	}
	return c.send(ctx, method, path, token, in, out)
}

func (c *Client) send(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}
