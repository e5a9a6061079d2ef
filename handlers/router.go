// ABOUTME: Builds the http.Handler serving the route table
// ABOUTME: Applies logging, per-tier rate limits, and CORS around every route

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/wusuleable-web/middleware"
)

// Router registers Routes on a ServeMux using method patterns, so a method
// mismatch answers 405.
func (h *Handler) Router() http.Handler {
	limiters := map[string]*middleware.RateLimiter{}
	if h.cfg != nil && h.cfg.RateLimitEnabled {
		limiters[TierAuth] = middleware.NewRateLimiter(h.cfg.RateLimitAuth, time.Minute)
		limiters[TierDefault] = middleware.NewRateLimiter(h.cfg.RateLimitDefault, time.Minute)
		slog.Info("Rate limiting enabled",
			"auth_per_minute", h.cfg.RateLimitAuth,
			"default_per_minute", h.cfg.RateLimitDefault,
		)
	}

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		handler := middleware.Chain(route.Handler,
			middleware.LogRequest,
			middleware.RateLimit(limiters[route.RateLimit], middleware.ClientIP),
		)
		mux.HandleFunc(route.Method+" "+route.Path, handler)
	}

	var origins []string
	if h.cfg != nil {
		origins = h.cfg.CORSAllowedOrigins
	}
	return middleware.CORS(origins)(mux)
}
