// ABOUTME: Declarative route table for the same-origin API
// ABOUTME: Maps each /api path to an upstream path or a local handler

package handlers

import "net/http"

// Rate limit tiers applied by the router.
const (
	TierDefault = "default"
	TierAuth    = "auth"
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method    string           // HTTP method (GET, POST, etc.)
	Path      string           // URL path (e.g., "/api/auth/login")
	Handler   http.HandlerFunc // Handler function
	RateLimit string           // TierAuth or TierDefault
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Auth
		{Method: http.MethodPost, Path: "/api/auth/login", RateLimit: TierAuth,
			Handler: h.Proxy(ProxyRoute{BackendPath: "/auth/login"})},
		{Method: http.MethodPost, Path: "/api/auth/logout", RateLimit: TierAuth,
			Handler: h.Proxy(ProxyRoute{BackendPath: "/auth/logout"})},
		{Method: http.MethodPost, Path: "/api/users/createuser", RateLimit: TierAuth,
			Handler: h.Proxy(ProxyRoute{BackendPath: "/users"})},

		// Customers
		{Method: http.MethodPost, Path: "/api/customers", RateLimit: TierDefault,
			Handler: h.Proxy(ProxyRoute{BackendPath: "/customers"})},
		{Method: http.MethodGet, Path: "/api/customers/getcustomers", RateLimit: TierDefault,
			Handler: h.Proxy(ProxyRoute{BackendPath: "/customer/getcustomers", ForwardBody: never()})},

		// Billing
		{Method: http.MethodPost, Path: "/api/billing/mark-purchased", RateLimit: TierDefault,
			Handler: h.Proxy(ProxyRoute{BackendPath: "/billing/mark-purchased"})},
		{Method: http.MethodGet, Path: "/api/billing/pricing", RateLimit: TierDefault,
			Handler: h.Proxy(ProxyRoute{BackendPath: "/billing/pricing", ForwardBody: never(), Cacheable: true})},

		// Status & documentation
		{Method: http.MethodGet, Path: "/api/health", RateLimit: TierDefault, Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/openapi.yaml", RateLimit: TierDefault, Handler: h.OpenAPISpec},
	}
}
