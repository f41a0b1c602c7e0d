package introspection

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/pulsegate/pulsegate/internal/console"
	"github.com/pulsegate/pulsegate/internal/health"
	"github.com/pulsegate/pulsegate/internal/lifecycle"
)

// Paths of the fixed introspection endpoints.
const (
	PathConsole     = "/dev"
	PathHealth      = "/health"
	PathHealthLive  = "/health/live"
	PathHealthReady = "/health/ready"
)

// DefaultPort is used when server activation is given a non-positive port.
const DefaultPort = 8080

// ErrNoRouter is returned when a feature is activated without a router to
// register its routes on.
var ErrNoRouter = errors.New("no http router configured")

// Router is the surface of the shared embedded router the introspection
// features register against. *chi.Mux satisfies it.
type Router interface {
	Get(pattern string, h http.HandlerFunc)
}

// Config holds the collaborators the introspection server wires together.
type Config struct {
	Router Router

	Health *health.Registry

	Console *console.Registry

	Logger zerolog.Logger

	// Lifecycle is the host's event bus. When set, server activation
	// subscribes the endpoint summary logger to it.
	Lifecycle *lifecycle.Notifier

	// ConsoleRateLimit caps /dev requests per minute per client IP.
	// Zero disables rate limiting.
	ConsoleRateLimit int
}

// Server activates the introspection features against the shared router.
// Each feature activates at most once for the lifetime of the instance.
type Server struct {
	cfg       Config
	gate      *Gate
	inventory *Inventory

	port    int
	summary *SummaryLogger
}

// NewServer creates an inactive server. Features are brought up by the
// Activate* methods.
func NewServer(cfg Config) *Server {
	return &Server{
		cfg:       cfg,
		gate:      NewGate(),
		inventory: NewInventory(),
	}
}

// ActivateServer activates the base introspection feature once. The first
// caller's port is the one summary URLs are built with; later calls are
// no-ops regardless of their arguments.
func (s *Server) ActivateServer(port int) error {
	return s.gate.Activate(FeatureServer, func() error {
		if port <= 0 {
			port = DefaultPort
		}
		s.port = port
		s.summary = NewSummaryLogger(s.inventory, port, s.cfg.Logger)
		if s.cfg.Lifecycle != nil {
			s.summary.Subscribe(s.cfg.Lifecycle)
		}
		return nil
	})
}

// ActivateConsole registers the /dev diagnostic console route once.
func (s *Server) ActivateConsole() error {
	return s.gate.Activate(FeatureConsole, func() error {
		if s.cfg.Router == nil {
			return ErrNoRouter
		}
		handler := http.Handler(console.NewHandler(s.cfg.Console))
		if s.cfg.ConsoleRateLimit > 0 {
			handler = httprate.LimitByRealIP(s.cfg.ConsoleRateLimit, time.Minute)(handler)
		}
		s.cfg.Router.Get(PathConsole, handler.ServeHTTP)
		s.inventory.Add(PathConsole)
		return nil
	})
}

// ActivateHealth registers the three fixed health routes once, all served by
// a single handler that picks the check category from the matched path.
// Only the root health path is recorded in the endpoint inventory.
func (s *Server) ActivateHealth() error {
	return s.gate.Activate(FeatureHealth, func() error {
		if s.cfg.Router == nil {
			return ErrNoRouter
		}
		handler := health.NewHandler(s.cfg.Health)
		s.cfg.Router.Get(PathHealth, handler.ServeHTTP)
		s.cfg.Router.Get(PathHealthLive, handler.ServeHTTP)
		s.cfg.Router.Get(PathHealthReady, handler.ServeHTTP)
		s.inventory.Add(PathHealth)
		return nil
	})
}

// Activated reports whether the given feature has been activated.
func (s *Server) Activated(feature Feature) bool {
	return s.gate.Activated(feature)
}

// Inventory returns the endpoint inventory so hosts can record their own
// exposed paths alongside the introspection ones.
func (s *Server) Inventory() *Inventory {
	return s.inventory
}

// Port returns the port the server feature was activated with, or zero when
// the server feature is not active.
func (s *Server) Port() int {
	return s.port
}
