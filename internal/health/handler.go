package health

import (
	"io"
	"net/http"
)

// Handler serves the three fixed health endpoints from one handler. The
// check category is chosen purely by which path matched, never by payload.
type Handler struct {
	registry *Registry
}

// NewHandler creates a handler backed by the given registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// ServeHTTP invokes the matching check collection and renders it at the
// registry's current exposure level. A check collection that panics is left
// for the outer recovery middleware to map to a 5xx response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var results []Result
	switch r.URL.Path {
	case "/health/live":
		results = h.registry.InvokeLiveness(r.Context())
	case "/health/ready":
		results = h.registry.InvokeReadiness(r.Context())
	default:
		results = h.registry.Invoke(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, Render(h.registry.ExposureLevel(), results))
}
