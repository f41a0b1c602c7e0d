package health

import (
	"context"
	"sync"
)

// Exposure levels controlling how much detail a health response reveals.
const (
	ExposureOneline = "oneline"
	ExposureFull    = "full"
	ExposureDefault = "default"
)

// Registry holds the registered checks and the configured exposure level.
// Safe for concurrent use; requests read the exposure level per call.
type Registry struct {
	mu       sync.RWMutex
	checks   []Check
	exposure string
}

// NewRegistry creates a registry with the given exposure level. An empty or
// unrecognized level falls back to the default rendering profile.
func NewRegistry(exposureLevel string) *Registry {
	if exposureLevel == "" {
		exposureLevel = ExposureDefault
	}
	return &Registry{exposure: exposureLevel}
}

// Register adds a check. Checks are invoked in registration order.
func (r *Registry) Register(c Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, c)
}

// ExposureLevel returns the configured rendering detail level.
func (r *Registry) ExposureLevel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exposure
}

// SetExposureLevel replaces the rendering detail level. Takes effect on the
// next request.
func (r *Registry) SetExposureLevel(level string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exposure = level
}

// Invoke runs every registered check.
func (r *Registry) Invoke(ctx context.Context) []Result {
	return r.invoke(ctx, func(Check) bool { return true })
}

// InvokeLiveness runs only the liveness-tagged checks.
func (r *Registry) InvokeLiveness(ctx context.Context) []Result {
	return r.invoke(ctx, func(c Check) bool { return c.Liveness() })
}

// InvokeReadiness runs only the readiness-tagged checks.
func (r *Registry) InvokeReadiness(ctx context.Context) []Result {
	return r.invoke(ctx, func(c Check) bool { return c.Readiness() })
}

func (r *Registry) invoke(ctx context.Context, include func(Check) bool) []Result {
	r.mu.RLock()
	checks := make([]Check, len(r.checks))
	copy(checks, r.checks)
	r.mu.RUnlock()

	var results []Result
	for _, c := range checks {
		if include(c) {
			results = append(results, c.Call(ctx))
		}
	}
	return results
}
