// Package introspection exposes the process's health state and diagnostic
// console over HTTP: it activates each feature exactly once against a shared
// router and reports the exposed endpoint set on lifecycle events.
package introspection

import (
	"fmt"
	"sync/atomic"
)

// Feature identifies one independently activatable introspection feature.
type Feature string

const (
	FeatureServer  Feature = "server"
	FeatureConsole Feature = "console"
	FeatureHealth  Feature = "health"
)

// Gate tracks one-time activation per feature. Activation is a deploy-time
// operation: a failed setup leaves the feature flagged and unusable rather
// than eligible for retry.
type Gate struct {
	server  atomic.Bool
	console atomic.Bool
	health  atomic.Bool
}

// NewGate creates a gate with every feature inactive.
func NewGate() *Gate {
	return &Gate{}
}

// Activate flips the feature flag and, when this caller wins the flip, runs
// setup exactly once. Concurrent callers race on a single compare-and-swap;
// losers return nil without side effects. A setup failure is wrapped and
// returned to the caller as a fatal configuration error.
func (g *Gate) Activate(feature Feature, setup func() error) error {
	flag := g.flag(feature)
	if flag == nil {
		return fmt.Errorf("activate %s: unknown feature", feature)
	}
	if !flag.CompareAndSwap(false, true) {
		return nil
	}
	if err := setup(); err != nil {
		return fmt.Errorf("activate %s: %w", feature, err)
	}
	return nil
}

// Activated reports whether the feature's flag has been set.
func (g *Gate) Activated(feature Feature) bool {
	flag := g.flag(feature)
	return flag != nil && flag.Load()
}

func (g *Gate) flag(feature Feature) *atomic.Bool {
	switch feature {
	case FeatureServer:
		return &g.server
	case FeatureConsole:
		return &g.console
	case FeatureHealth:
		return &g.health
	default:
		return nil
	}
}
