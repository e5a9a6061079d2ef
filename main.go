// ABOUTME: Entry point for the wusuleable BFF service
// ABOUTME: Serves the same-origin /api surface and forwards it to the upstream API

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/wusuleable-web/cache"
	"github.com/markalston/wusuleable-web/config"
	"github.com/markalston/wusuleable-web/handlers"
	"github.com/markalston/wusuleable-web/logger"
	"github.com/markalston/wusuleable-web/services"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting wusuleable BFF", "env", cfg.AppEnv)

	baseURL := cfg.ResolveBackendBaseURL()
	if baseURL == "" {
		slog.Warn("Backend base URL not configured; proxied routes will answer 500", "env", cfg.AppEnv)
	} else {
		slog.Info("Backend configured", "url", baseURL)
	}

	client, err := services.NewUpstreamClient(cfg)
	if err != nil {
		slog.Error("Failed to build upstream client", "error", err)
		os.Exit(1)
	}
	upstream := services.NewUpstream(baseURL, client)

	var responses *cache.Cache[*services.Response]
	if cfg.PricingCacheTTL > 0 {
		ttl := time.Duration(cfg.PricingCacheTTL) * time.Second
		responses = cache.New[*services.Response](ttl, time.Minute)
		defer responses.Close()
		slog.Info("Pricing cache initialized", "ttl", ttl)
	}

	h := handlers.NewHandler(cfg, upstream, responses)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Duration(cfg.UpstreamTimeout+15) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
