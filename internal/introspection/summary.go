package introspection

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/pulsegate/pulsegate/internal/lifecycle"
)

// SummaryLogger logs the exposed endpoint inventory once the host reaches a
// stable started state, suppressing duplicate output and partial reload
// state.
type SummaryLogger struct {
	inventory *Inventory
	port      int
	logger    zerolog.Logger

	mu   sync.Mutex
	last map[string]struct{}
}

// NewSummaryLogger creates a logger over the given inventory. The port is
// only used to build the logged URLs.
func NewSummaryLogger(inventory *Inventory, port int, logger zerolog.Logger) *SummaryLogger {
	return &SummaryLogger{
		inventory: inventory,
		port:      port,
		logger:    logger,
	}
}

// Subscribe attaches the logger to the host's lifecycle bus.
func (s *SummaryLogger) Subscribe(n *lifecycle.Notifier) {
	n.Subscribe(s.Notify)
}

// Notify handles one lifecycle event. A reload batch only triggers an
// evaluation on its final event so partial state is never reported.
func (s *SummaryLogger) Notify(e lifecycle.Event) {
	switch ev := e.(type) {
	case lifecycle.ContextStarted:
	case lifecycle.RoutesReloaded:
		if !ev.Last() {
			return
		}
	default:
		return
	}
	s.evaluate()
}

func (s *SummaryLogger) evaluate() {
	endpoints := s.inventory.Snapshot()
	if len(endpoints) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.changed(endpoints) {
		return
	}

	s.logger.Info().Msg("HTTP endpoints summary")
	for _, u := range endpoints {
		s.logger.Info().Msgf("    http://0.0.0.0:%d%s", s.port, u)
	}

	// keep a defensive copy of what was logged
	last := make(map[string]struct{}, len(endpoints))
	for _, u := range endpoints {
		last[u] = struct{}{}
	}
	s.last = last
}

// changed reports set inequality against the last logged snapshot. The same
// endpoints in a different order must not trigger a re-log.
func (s *SummaryLogger) changed(endpoints []string) bool {
	if s.last == nil || len(s.last) != len(endpoints) {
		return true
	}
	for _, u := range endpoints {
		if _, ok := s.last[u]; !ok {
			return true
		}
	}
	return false
}
