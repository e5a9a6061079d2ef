// ABOUTME: Configuration loader for the BFF service
// ABOUTME: Loads settings from environment variables (and .env) with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppEnv is the deployment tier the BFF runs in.
type AppEnv string

const (
	EnvLocal AppEnv = "local"
	EnvUAT   AppEnv = "uat"
	EnvProd  AppEnv = "prod"
)

// DefaultBackendBaseURLs maps each tier to its upstream API.
var DefaultBackendBaseURLs = map[AppEnv]string{
	EnvLocal: "https://localhost:7013",
	EnvUAT:   "https://uat-api.wusuleable.com",
	EnvProd:  "https://api.wusuleable.com",
}

type Config struct {
	// Server
	Port               string
	AppEnv             AppEnv
	CORSAllowedOrigins []string // empty = same-origin only
	MaxBodyBytes       int64

	// Upstream backend
	BackendBaseURL           string            // explicit override, wins over the tier map
	BackendBaseURLs          map[AppEnv]string // tier -> base URL
	BackendSkipSSLValidation bool              // explicit opt-in for self-signed local upstreams
	BackendAllProxy          string            // ssh+socks5://user@host:port?private-key=/path
	UpstreamTimeout          int               // seconds

	// Public response cache (0 disables)
	PricingCacheTTL int // seconds

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitAuth    int // Requests per minute for login/logout/create-user
	RateLimitDefault int // Requests per minute for all other endpoints
}

// ResolveBackendBaseURL returns the upstream base URL: the explicit override
// first, then the entry for the configured tier. Empty means unresolved.
func (c *Config) ResolveBackendBaseURL() string {
	if c == nil {
		return ""
	}
	if c.BackendBaseURL != "" {
		return c.BackendBaseURL
	}
	return c.BackendBaseURLs[c.AppEnv]
}

// Load builds a Config from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		AppEnv:             ParseAppEnv(os.Getenv("APP_ENV"), getEnvBool("DEV_MODE", false)),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		BackendBaseURL:           ensureScheme(strings.TrimSpace(os.Getenv("BACKEND_BASE_URL"))),
		BackendBaseURLs:          backendBaseURLsFromEnv(),
		BackendSkipSSLValidation: getEnvBool("BACKEND_SKIP_SSL_VALIDATION", false),
		BackendAllProxy:          os.Getenv("BACKEND_ALL_PROXY"),
		UpstreamTimeout:          getEnvInt("UPSTREAM_TIMEOUT", 30),

		PricingCacheTTL: getEnvInt("PRICING_CACHE_TTL", 0),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_AUTH", cfg.RateLimitAuth},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	if cfg.UpstreamTimeout < 1 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %d", cfg.UpstreamTimeout)
	}
	if cfg.MaxBodyBytes < 1 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.PricingCacheTTL < 0 {
		return nil, fmt.Errorf("PRICING_CACHE_TTL must not be negative, got %d", cfg.PricingCacheTTL)
	}
	if cfg.BackendAllProxy != "" && !strings.Contains(cfg.BackendAllProxy, "private-key=") {
		return nil, fmt.Errorf("BACKEND_ALL_PROXY requires a private-key query parameter")
	}

	return cfg, nil
}

// ParseAppEnv normalizes a tier name. Unknown or empty values fall back to
// local when devMode is set, prod otherwise.
func ParseAppEnv(raw string, devMode bool) AppEnv {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "local", "development", "dev":
		return EnvLocal
	case "uat", "staging":
		return EnvUAT
	case "prod", "production":
		return EnvProd
	}
	if devMode {
		return EnvLocal
	}
	return EnvProd
}

func backendBaseURLsFromEnv() map[AppEnv]string {
	urls := make(map[AppEnv]string, len(DefaultBackendBaseURLs))
	for env, url := range DefaultBackendBaseURLs {
		urls[env] = url
	}
	for env, key := range map[AppEnv]string{
		EnvLocal: "BACKEND_BASE_URL_LOCAL",
		EnvUAT:   "BACKEND_BASE_URL_UAT",
		EnvProd:  "BACKEND_BASE_URL_PROD",
	} {
		if value, ok := os.LookupEnv(key); ok {
			urls[env] = ensureScheme(strings.TrimSpace(value))
		}
	}
	return urls
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
