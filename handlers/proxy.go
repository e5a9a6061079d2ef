// ABOUTME: Transparent BFF proxy from /api routes to the upstream backend
// ABOUTME: Relays status, Set-Cookie, content type, and body bytes unchanged

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/markalston/wusuleable-web/middleware"
	"github.com/markalston/wusuleable-web/services"
)

// ProxyRoute binds a same-origin route to one upstream path.
type ProxyRoute struct {
	BackendPath string
	// ForwardBody overrides body forwarding. nil means forward unless
	// the method is GET or HEAD.
	ForwardBody *bool
	// Cacheable responses may be served from the public response cache.
	Cacheable bool
}

func (p ProxyRoute) forwardsBody(method string) bool {
	if p.ForwardBody != nil {
		return *p.ForwardBody
	}
	return method != http.MethodGet && method != http.MethodHead
}

// never is used for routes that ignore inbound bodies.
func never() *bool {
	b := false
	return &b
}

// Proxy returns a handler that forwards each request to route.BackendPath.
func (h *Handler) Proxy(route ProxyRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.upstream.Configured() {
			slog.Error("Proxy: backend not configured", "path", r.URL.Path)
			h.writeError(w, services.ErrBackendNotConfigured.Error(), http.StatusInternalServerError)
			return
		}

		var body io.Reader
		if route.forwardsBody(r.Method) {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes()))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					h.writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				h.writeError(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			if len(data) > 0 {
				body = bytes.NewReader(data)
			}
		}

		header := services.OutboundHeaders(r.Header, middleware.RequestID(r.Context()))

		var (
			resp *services.Response
			err  error
		)
		if h.cacheable(route, r) {
			resp, err = h.forwardCached(r, route, header)
		} else {
			resp, err = h.upstream.Forward(r.Context(), r.Method, route.BackendPath, header, body)
		}
		if err != nil {
			slog.Error("Proxy: upstream request failed",
				"path", r.URL.Path,
				"backend_path", route.BackendPath,
				"error", err,
			)
			h.writeError(w, "Upstream request failed", http.StatusBadGateway)
			return
		}

		relay(w, resp)
	}
}

// cacheable reports whether this request may use the shared response cache.
// Credentialed requests never do.
func (h *Handler) cacheable(route ProxyRoute, r *http.Request) bool {
	return route.Cacheable &&
		h.responses != nil &&
		r.Method == http.MethodGet &&
		r.Header.Get("Cookie") == "" &&
		r.Header.Get("Authorization") == ""
}

func (h *Handler) forwardCached(r *http.Request, route ProxyRoute, header http.Header) (*services.Response, error) {
	key := r.Method + " " + route.BackendPath
	if resp, ok := h.responses.Get(key); ok {
		return resp, nil
	}

	v, err, shared := h.flight.Do(key, func() (any, error) {
		resp, err := h.upstream.Forward(r.Context(), r.Method, route.BackendPath, header, nil)
		if err != nil {
			return nil, err
		}
		if resp.Status >= 200 && resp.Status < 300 && len(resp.SetCookies) == 0 {
			h.responses.Set(key, resp)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("Proxy: coalesced upstream request", "key", key)
	}
	return v.(*services.Response), nil
}

func relay(w http.ResponseWriter, resp *services.Response) {
	for _, c := range resp.SetCookies {
		w.Header().Add("Set-Cookie", c)
	}
	w.Header().Set("Content-Type", resp.ContentType())
	w.WriteHeader(resp.Status)
	if _, err := w.Write(resp.Body); err != nil {
		slog.Debug("Proxy: client went away during relay", "error", err)
	}
}
