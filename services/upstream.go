// ABOUTME: Upstream backend client used by the BFF proxy
// ABOUTME: Joins URLs, filters forwarded headers, and performs one request per call

package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cloudfoundry/socks5-proxy"

	"github.com/markalston/wusuleable-web/config"
)

// ErrBackendNotConfigured means no upstream base URL could be resolved.
var ErrBackendNotConfigured = errors.New("BACKEND_BASE_URL is not configured.")

// DefaultContentType is used when the upstream omits Content-Type.
const DefaultContentType = "application/json; charset=utf-8"

// forwardedHeaders are copied from the inbound request when present.
// Accept is always overridden to JSON.
var forwardedHeaders = []string{"Cookie", "Authorization", "Content-Type"}

// JoinURL joins base and path with exactly one slash.
func JoinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// OutboundHeaders builds the upstream request headers from the inbound ones.
// Nothing outside the allow-list is copied.
func OutboundHeaders(in http.Header, requestID string) http.Header {
	out := http.Header{}
	out.Set("Accept", "application/json")
	for _, name := range forwardedHeaders {
		if v := in.Get(name); v != "" {
			out.Set(name, v)
		}
	}
	if requestID != "" {
		out.Set("X-Request-ID", requestID)
	}
	return out
}

// Response is a fully buffered upstream response.
type Response struct {
	Status     int
	SetCookies []string
	Header     http.Header
	Body       []byte
}

// ContentType returns the upstream content type or DefaultContentType.
func (r *Response) ContentType() string {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return DefaultContentType
}

// Upstream forwards requests to the backend API.
type Upstream struct {
	baseURL string
	client  *http.Client
}

// NewUpstream returns an Upstream for baseURL. An empty baseURL yields an
// Upstream whose Forward always fails with ErrBackendNotConfigured.
func NewUpstream(baseURL string, client *http.Client) *Upstream {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Upstream{baseURL: baseURL, client: client}
}

// BaseURL returns the resolved upstream base, possibly empty.
func (u *Upstream) BaseURL() string {
	return u.baseURL
}

// Configured reports whether a base URL was resolved.
func (u *Upstream) Configured() bool {
	return u != nil && u.baseURL != ""
}

// Forward sends one request to path on the upstream and buffers the reply.
// Transport failures are returned as errors; any HTTP status is a response.
func (u *Upstream) Forward(ctx context.Context, method, path string, header http.Header, body io.Reader) (*Response, error) {
	if !u.Configured() {
		return nil, ErrBackendNotConfigured
	}

	target := JoinURL(u.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header = header

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	slog.Debug("Upstream responded",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		Status:     resp.StatusCode,
		SetCookies: resp.Header.Values("Set-Cookie"),
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// NewUpstreamClient builds the HTTP client for the configured transport:
// timeout, optional TLS relaxation, and optional SSH+SOCKS5 tunnelling.
func NewUpstreamClient(cfg *config.Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.BackendSkipSSLValidation {
		slog.Warn("Upstream TLS verification disabled", "env", cfg.AppEnv)
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	if cfg.BackendAllProxy != "" {
		dial, err := createSOCKS5DialContextFunc(cfg.BackendAllProxy)
		if err != nil {
			return nil, err
		}
		transport.DialContext = dial
		transport.Proxy = nil
		slog.Info("Upstream requests tunnelled through SOCKS5 proxy")
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.UpstreamTimeout) * time.Second,
	}, nil
}

// createSOCKS5DialContextFunc creates a dial function for SSH+SOCKS5 proxy connections.
// Supports format: ssh+socks5://user@host:port?private-key=/path/to/key
func createSOCKS5DialContextFunc(allProxy string) (func(ctx context.Context, network, address string) (net.Conn, error), error) {
	proxyURL, err := url.Parse(strings.TrimPrefix(allProxy, "ssh+"))
	if err != nil {
		return nil, fmt.Errorf("parsing BACKEND_ALL_PROXY: %w", err)
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	keyPath := proxyURL.Query().Get("private-key")
	if keyPath == "" {
		return nil, errors.New("BACKEND_ALL_PROXY missing required 'private-key' query param")
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading SSH private key %s: %w", keyPath, err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), time.Minute)

	var (
		dialer proxy.DialFunc
		mu     sync.Mutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mu.Lock()
		if dialer == nil {
			d, err := socks5Proxy.Dialer(username, string(key), proxyURL.Host)
			if err != nil {
				mu.Unlock()
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = d
		}
		d := dialer
		mu.Unlock()

		return d(network, address)
	}, nil
}
