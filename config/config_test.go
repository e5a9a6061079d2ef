package config

import (
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(withCleanEnv(t, nil))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AppEnv != EnvProd {
		t.Errorf("Expected default tier prod, got %s", cfg.AppEnv)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("Expected default max body 1MiB, got %d", cfg.MaxBodyBytes)
	}
	if cfg.PricingCacheTTL != 0 {
		t.Errorf("Expected pricing cache disabled by default, got %d", cfg.PricingCacheTTL)
	}
	if cfg.BackendSkipSSLValidation {
		t.Error("Expected TLS validation on by default")
	}
	if got := cfg.ResolveBackendBaseURL(); got != "https://api.wusuleable.com" {
		t.Errorf("Expected prod backend URL, got %s", got)
	}
}

func TestLoadConfig_DevModeFallsBackToLocal(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"DEV_MODE": "true"}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.AppEnv != EnvLocal {
		t.Errorf("Expected local tier in dev mode, got %s", cfg.AppEnv)
	}
	if got := cfg.ResolveBackendBaseURL(); got != "https://localhost:7013" {
		t.Errorf("Expected local backend URL, got %s", got)
	}
}

func TestLoadConfig_OverrideWinsOverTier(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"APP_ENV":          "uat",
		"BACKEND_BASE_URL": "https://override.example.com/",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.AppEnv != EnvUAT {
		t.Errorf("Expected uat tier, got %s", cfg.AppEnv)
	}
	if got := cfg.ResolveBackendBaseURL(); got != "https://override.example.com/" {
		t.Errorf("Expected override URL, got %s", got)
	}
}

func TestLoadConfig_TierEntryOverride(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"APP_ENV":              "staging",
		"BACKEND_BASE_URL_UAT": "uat.internal:8443",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := cfg.ResolveBackendBaseURL(); got != "https://uat.internal:8443" {
		t.Errorf("Expected per-tier override with scheme, got %s", got)
	}
}

func TestLoadConfig_EmptyTierEntryIsUnresolved(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"APP_ENV":               "prod",
		"BACKEND_BASE_URL_PROD": "",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := cfg.ResolveBackendBaseURL(); got != "" {
		t.Errorf("Expected unresolved backend URL, got %q", got)
	}
}

func TestLoadConfig_InvalidRateLimit(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"RATE_LIMIT_AUTH": "0"}))

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for RATE_LIMIT_AUTH=0")
	}
	if !strings.Contains(err.Error(), "RATE_LIMIT_AUTH") {
		t.Errorf("Expected error to name RATE_LIMIT_AUTH, got %v", err)
	}
}

func TestLoadConfig_AllProxyRequiresKey(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"BACKEND_ALL_PROXY": "ssh+socks5://jumpbox@10.0.0.5:22",
	}))

	if _, err := Load(); err == nil {
		t.Error("Expected error for BACKEND_ALL_PROXY without private-key")
	}
}

func TestParseAppEnv(t *testing.T) {
	tests := []struct {
		raw     string
		devMode bool
		want    AppEnv
	}{
		{"local", false, EnvLocal},
		{"LOCAL", false, EnvLocal},
		{"uat", false, EnvUAT},
		{"staging", false, EnvUAT},
		{"prod", false, EnvProd},
		{"production", false, EnvProd},
		{"", false, EnvProd},
		{"", true, EnvLocal},
		{"qa", false, EnvProd},
		{"qa", true, EnvLocal},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseAppEnv(tt.raw, tt.devMode); got != tt.want {
				t.Errorf("ParseAppEnv(%q, %v) = %s, want %s", tt.raw, tt.devMode, got, tt.want)
			}
		})
	}
}

func TestResolveBackendBaseURL_NilConfig(t *testing.T) {
	var cfg *Config
	if got := cfg.ResolveBackendBaseURL(); got != "" {
		t.Errorf("Expected empty URL for nil config, got %q", got)
	}
}
