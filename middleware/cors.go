// ABOUTME: CORS middleware for cross-origin API clients
// ABOUTME: Wraps rs/cors with the allow-list from CORS_ALLOWED_ORIGINS

package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns middleware that allows the listed origins with credentials.
// An empty list disables CORS entirely so only same-origin callers work;
// rs/cors would otherwise treat an empty list as allow-all.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}
