// ABOUTME: Health endpoint for the BFF
// ABOUTME: Reports tier, backend resolution, and cache state without calling upstream

package handlers

import (
	"fmt"
	"net/http"

	"github.com/markalston/wusuleable-web/models"
)

// Health reports whether the BFF can forward requests.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:            "ok",
		BackendConfigured: h.upstream.Configured(),
		PricingCache:      "disabled",
	}
	if h.cfg != nil {
		resp.AppEnv = string(h.cfg.AppEnv)
	}
	if !resp.BackendConfigured {
		resp.Status = "degraded"
	}
	if h.responses != nil {
		resp.PricingCache = fmt.Sprintf("enabled (ttl %s, %d entries)", h.responses.TTL(), h.responses.Len())
	}

	h.writeJSON(w, http.StatusOK, resp)
}
