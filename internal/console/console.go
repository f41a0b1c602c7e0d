// Package console renders the free-form diagnostic console served on /dev.
// Providers are pluggable sources of internal state dumps; the renderer
// concatenates the plain-text output of every enabled provider.
package console

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// MediaType identifies an output format a diagnostic provider can produce.
type MediaType string

const (
	MediaTypeText MediaType = "text/plain"
	MediaTypeJSON MediaType = "application/json"
)

// DisabledMessage is the canonical body returned when no console output is
// available, whether the console is disabled or no provider produced output.
const DisabledMessage = "Developer Console is not enabled"

// Provider is a pluggable source of internal diagnostic output.
type Provider interface {
	DisplayName() string

	SupportsMediaType(kind MediaType) bool

	// Render returns the provider's output for the given media type, or the
	// empty string when the provider has nothing to report.
	Render(kind MediaType) string
}

// Registry holds the diagnostic providers in registration order.
type Registry struct {
	mu        sync.RWMutex
	enabled   bool
	providers []Provider
}

// NewRegistry creates a registry. A disabled registry renders the fallback
// message regardless of registered providers.
func NewRegistry(enabled bool) *Registry {
	return &Registry{enabled: enabled}
}

// Enabled reports whether the console is enabled at the registry level.
func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Register appends a provider. Providers render in registration order.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Providers returns a copy of the registered provider list.
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	providers := make([]Provider, len(r.providers))
	copy(providers, r.providers)
	return providers
}

// Render concatenates the plain-text output of every registered provider
// that supports the text media type. A nil or disabled registry, or one
// whose providers produced no output, yields DisabledMessage.
func Render(r *Registry) string {
	if r == nil || !r.Enabled() {
		return DisabledMessage
	}

	var sb strings.Builder
	for _, p := range r.Providers() {
		if !p.SupportsMediaType(MediaTypeText) {
			continue
		}
		text := p.Render(MediaTypeText)
		if text == "" {
			continue
		}
		sb.WriteString(p.DisplayName())
		sb.WriteString(":")
		sb.WriteString("\n\n")
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	if sb.Len() == 0 {
		return DisabledMessage
	}
	return sb.String()
}

// Handler serves the diagnostic console as plain text.
type Handler struct {
	registry *Registry
}

// NewHandler creates a handler backed by the given registry. A nil registry
// is valid and always renders the fallback message.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, Render(h.registry))
}
