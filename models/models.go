// ABOUTME: Shared wire types for the BFF surface and the account client
// ABOUTME: JSON shapes of the upstream envelope, errors, and health

package models

import "encoding/json"

// ErrorResponse is the body of every error the BFF produces itself.
// Upstream errors are relayed verbatim and never rewritten into this shape.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// ApiResult is the upstream's standard response envelope.
type ApiResult[T any] struct {
	Item             T               `json:"item"`
	IsSucceeded      bool            `json:"isSucceeded"`
	ErrorCode        string          `json:"errorCode"`
	ErrorMessage     *string         `json:"errorMessage"`
	ErrorDescription *string         `json:"errorDescription,omitempty"`
	StackTrace       *string         `json:"stackTrace,omitempty"`
	ValidationErrors json.RawMessage `json:"validationErrors,omitempty"`
}

// HealthResponse is served by GET /api/health.
type HealthResponse struct {
	Status            string `json:"status"`
	AppEnv            string `json:"app_env"`
	BackendConfigured bool   `json:"backend_configured"`
	PricingCache      string `json:"pricing_cache"`
}
