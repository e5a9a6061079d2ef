// ABOUTME: HTTP handlers for the same-origin /api surface
// ABOUTME: Holds shared dependencies and the JSON response helpers

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/wusuleable-web/cache"
	"github.com/markalston/wusuleable-web/config"
	"github.com/markalston/wusuleable-web/models"
	"github.com/markalston/wusuleable-web/services"
)

const defaultMaxBodyBytes = 1 << 20

type Handler struct {
	cfg       *config.Config
	upstream  *services.Upstream
	responses *cache.Cache[*services.Response] // nil when the public cache is off
	flight    singleflight.Group
}

// NewHandler wires the handlers. cfg, upstream, and responses may be nil;
// a nil upstream behaves as an unconfigured backend.
func NewHandler(cfg *config.Config, upstream *services.Upstream, responses *cache.Cache[*services.Response]) *Handler {
	if upstream == nil {
		upstream = services.NewUpstream("", nil)
	}
	return &Handler{
		cfg:       cfg,
		upstream:  upstream,
		responses: responses,
	}
}

func (h *Handler) maxBodyBytes() int64 {
	if h.cfg != nil && h.cfg.MaxBodyBytes > 0 {
		return h.cfg.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Message: message,
		Code:    code,
	})
}
