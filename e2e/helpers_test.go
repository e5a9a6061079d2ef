// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds the full BFF router from environment against a fake upstream

package e2e

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/markalston/wusuleable-web/config"
	"github.com/markalston/wusuleable-web/handlers"
	"github.com/markalston/wusuleable-web/services"
)

// withEnv sets env vars and returns a cleanup function that restores the
// original values.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(withEnv(t, map[string]string{
//	        "CORS_ALLOWED_ORIGINS": "https://example.com",
//	    }))
//	}
func withEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()

	type saved struct {
		value string
		set   bool
	}
	originals := make(map[string]saved, len(vars))
	for key, value := range vars {
		v, ok := os.LookupEnv(key)
		originals[key] = saved{v, ok}
		os.Setenv(key, value)
	}

	return func() {
		for key, s := range originals {
			if s.set {
				os.Setenv(key, s.value)
			} else {
				os.Unsetenv(key)
			}
		}
	}
}

// newBFF loads config from the environment (plus BACKEND_BASE_URL pointing
// at upstream) and returns the router main.go would serve.
func newBFF(t *testing.T, upstream *httptest.Server, extra map[string]string) http.Handler {
	t.Helper()

	vars := map[string]string{"APP_ENV": "local"}
	if upstream != nil {
		vars["BACKEND_BASE_URL"] = upstream.URL
	}
	for k, v := range extra {
		vars[k] = v
	}
	t.Cleanup(withEnv(t, vars))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	client, err := services.NewUpstreamClient(cfg)
	if err != nil {
		t.Fatalf("Failed to build upstream client: %v", err)
	}

	h := handlers.NewHandler(cfg, services.NewUpstream(cfg.ResolveBackendBaseURL(), client), nil)
	return h.Router()
}
