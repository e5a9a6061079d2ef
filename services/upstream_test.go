package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/markalston/wusuleable-web/config"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://api.example.com", "/auth/login", "https://api.example.com/auth/login"},
		{"https://api.example.com/", "/auth/login", "https://api.example.com/auth/login"},
		{"https://api.example.com", "auth/login", "https://api.example.com/auth/login"},
		{"https://api.example.com/", "auth/login", "https://api.example.com/auth/login"},
		{"https://api.example.com/v1//", "/users", "https://api.example.com/v1/users"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.path, func(t *testing.T) {
			if got := JoinURL(tt.base, tt.path); got != tt.want {
				t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
			}
		})
	}
}

func TestOutboundHeaders_AllowList(t *testing.T) {
	in := http.Header{}
	in.Set("Accept", "text/html")
	in.Set("Cookie", "sid=abc")
	in.Set("Authorization", "Bearer t")
	in.Set("Content-Type", "application/json")
	in.Set("X-Forwarded-For", "10.0.0.1")
	in.Set("User-Agent", "curl/8")

	out := OutboundHeaders(in, "req-1")

	if got := out.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want application/json", got)
	}
	for _, name := range []string{"Cookie", "Authorization", "Content-Type"} {
		if out.Get(name) != in.Get(name) {
			t.Errorf("%s not forwarded", name)
		}
	}
	if out.Get("X-Request-ID") != "req-1" {
		t.Errorf("X-Request-ID = %q, want req-1", out.Get("X-Request-ID"))
	}
	if out.Get("X-Forwarded-For") != "" || out.Get("User-Agent") != "" {
		t.Errorf("Unexpected headers forwarded: %v", out)
	}
	if len(out) != 5 {
		t.Errorf("Expected 5 headers, got %d: %v", len(out), out)
	}
}

func TestOutboundHeaders_OmitsAbsent(t *testing.T) {
	out := OutboundHeaders(http.Header{}, "")
	if len(out) != 1 || out.Get("Accept") != "application/json" {
		t.Errorf("Expected only Accept, got %v", out)
	}
}

func TestForward_NotConfigured(t *testing.T) {
	u := NewUpstream("", nil)
	_, err := u.Forward(context.Background(), http.MethodGet, "/billing/pricing", http.Header{}, nil)
	if !errors.Is(err, ErrBackendNotConfigured) {
		t.Errorf("err = %v, want ErrBackendNotConfigured", err)
	}
}

func TestForward_RelaysResponse(t *testing.T) {
	var gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		http.SetCookie(w, &http.Cookie{Name: "a", Value: "1"})
		http.SetCookie(w, &http.Cookie{Name: "b", Value: "2"})
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"isSucceeded":false}`))
	}))
	defer server.Close()

	u := NewUpstream(server.URL+"/", server.Client())
	resp, err := u.Forward(context.Background(), http.MethodPost, "/users", http.Header{}, strings.NewReader(`{"email":"x"}`))
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	if gotPath != "/users" {
		t.Errorf("upstream path = %q, want /users", gotPath)
	}
	if gotBody != `{"email":"x"}` {
		t.Errorf("upstream body = %q", gotBody)
	}
	if resp.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", resp.Status)
	}
	if len(resp.SetCookies) != 2 {
		t.Errorf("Expected 2 Set-Cookie values, got %v", resp.SetCookies)
	}
	if resp.ContentType() != "application/problem+json" {
		t.Errorf("ContentType = %q", resp.ContentType())
	}
	if string(resp.Body) != `{"isSucceeded":false}` {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestResponse_DefaultContentType(t *testing.T) {
	r := &Response{Header: http.Header{}}
	if r.ContentType() != DefaultContentType {
		t.Errorf("ContentType = %q, want default", r.ContentType())
	}
}

func TestForward_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	u := NewUpstream(url, &http.Client{Timeout: time.Second})
	_, err := u.Forward(context.Background(), http.MethodGet, "/billing/pricing", http.Header{}, nil)
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if errors.Is(err, ErrBackendNotConfigured) {
		t.Error("Transport error must not look like a config error")
	}
}

func TestForward_HonorsContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := NewUpstream(server.URL, server.Client())
	_, err := u.Forward(ctx, http.MethodGet, "/billing/pricing", http.Header{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewUpstreamClient_Timeout(t *testing.T) {
	client, err := NewUpstreamClient(&config.Config{UpstreamTimeout: 7})
	if err != nil {
		t.Fatalf("NewUpstreamClient failed: %v", err)
	}
	if client.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", client.Timeout)
	}
	tr := client.Transport.(*http.Transport)
	if tr.TLSClientConfig != nil && tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("TLS verification should stay on by default")
	}
}

func TestNewUpstreamClient_SkipSSLValidation(t *testing.T) {
	client, err := NewUpstreamClient(&config.Config{UpstreamTimeout: 1, BackendSkipSSLValidation: true})
	if err != nil {
		t.Fatalf("NewUpstreamClient failed: %v", err)
	}
	tr := client.Transport.(*http.Transport)
	if tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("Expected InsecureSkipVerify")
	}
}

func TestNewUpstreamClient_AllProxy(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(keyPath, []byte("not-a-real-key"), 0o600); err != nil {
		t.Fatal(err)
	}

	client, err := NewUpstreamClient(&config.Config{
		UpstreamTimeout: 1,
		BackendAllProxy: "ssh+socks5://jumpbox@10.0.0.5:22?private-key=" + keyPath,
	})
	if err != nil {
		t.Fatalf("NewUpstreamClient failed: %v", err)
	}
	if client.Transport.(*http.Transport).DialContext == nil {
		t.Error("Expected SOCKS5 DialContext to be installed")
	}
}

func TestNewUpstreamClient_AllProxyMissingKeyFile(t *testing.T) {
	_, err := NewUpstreamClient(&config.Config{
		UpstreamTimeout: 1,
		BackendAllProxy: "ssh+socks5://jumpbox@10.0.0.5:22?private-key=/does/not/exist",
	})
	if err == nil {
		t.Error("Expected error for unreadable key")
	}
}
