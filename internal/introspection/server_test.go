package introspection_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegate/pulsegate/internal/console"
	"github.com/pulsegate/pulsegate/internal/health"
	"github.com/pulsegate/pulsegate/internal/introspection"
	"github.com/pulsegate/pulsegate/internal/lifecycle"
)

func newTestServer(t *testing.T, healthReg *health.Registry, consoleReg *console.Registry) (*introspection.Server, *chi.Mux) {
	t.Helper()
	router := chi.NewRouter()
	srv := introspection.NewServer(introspection.Config{
		Router:  router,
		Health:  healthReg,
		Console: consoleReg,
		Logger:  zerolog.New(io.Discard),
	})
	return srv, router
}

func TestServer_ActivateAll(t *testing.T) {
	healthReg := health.NewRegistry(health.ExposureOneline)
	healthReg.Register(health.NewFuncCheck("db", true, true, func(context.Context) health.Result {
		return health.Up("db")
	}))
	srv, router := newTestServer(t, healthReg, console.NewRegistry(false))

	require.NoError(t, srv.ActivateServer(8080))
	require.NoError(t, srv.ActivateConsole())
	require.NoError(t, srv.ActivateHealth())

	// scenario: oneline exposure, single UP check
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "{\n    \"status\": \"UP\"\n}\n", rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	// diagnostics registry disabled
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dev", nil))
	assert.Equal(t, "Developer Console is not enabled", rec.Body.String())

	got := srv.Inventory().Snapshot()
	sort.Strings(got)
	assert.Equal(t, []string{"/dev", "/health"}, got)
}

func TestServer_ActivationIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t, health.NewRegistry(""), console.NewRegistry(false))

	require.NoError(t, srv.ActivateServer(9090))
	require.NoError(t, srv.ActivateServer(7070))

	// only the first caller's port takes effect
	assert.Equal(t, 9090, srv.Port())

	require.NoError(t, srv.ActivateHealth())
	// re-activating must not register routes twice (chi panics on
	// duplicate method/path registration)
	require.NoError(t, srv.ActivateHealth())
}

func TestServer_DefaultPort(t *testing.T) {
	srv, _ := newTestServer(t, health.NewRegistry(""), console.NewRegistry(false))

	require.NoError(t, srv.ActivateServer(0))

	assert.Equal(t, introspection.DefaultPort, srv.Port())
}

func TestServer_HealthRoutesByCategory(t *testing.T) {
	healthReg := health.NewRegistry(health.ExposureFull)
	healthReg.Register(health.NewFuncCheck("live-check", true, false, func(context.Context) health.Result {
		return health.Up("live-check")
	}))
	healthReg.Register(health.NewFuncCheck("ready-check", false, true, func(context.Context) health.Result {
		return health.Up("ready-check")
	}))
	srv, router := newTestServer(t, healthReg, console.NewRegistry(false))

	require.NoError(t, srv.ActivateServer(8080))
	require.NoError(t, srv.ActivateHealth())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Contains(t, rec.Body.String(), "live-check")
	assert.NotContains(t, rec.Body.String(), "ready-check")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Contains(t, rec.Body.String(), "ready-check")
	assert.NotContains(t, rec.Body.String(), "live-check")
}

func TestServer_ConsoleRendersProviders(t *testing.T) {
	consoleReg := console.NewRegistry(true)
	consoleReg.Register(console.NewEndpointsProvider(func() []string {
		return []string{"/health"}
	}))
	srv, router := newTestServer(t, health.NewRegistry(""), consoleReg)

	require.NoError(t, srv.ActivateServer(8080))
	require.NoError(t, srv.ActivateConsole())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dev", nil))
	assert.Contains(t, rec.Body.String(), "HTTP Endpoints:")
	assert.Contains(t, rec.Body.String(), "/health")
}

func TestServer_SummaryLoggedAfterContextStarted(t *testing.T) {
	buf := &bytes.Buffer{}
	notifier := lifecycle.NewNotifier()
	router := chi.NewRouter()
	srv := introspection.NewServer(introspection.Config{
		Router:    router,
		Health:    health.NewRegistry(""),
		Console:   console.NewRegistry(false),
		Logger:    zerolog.New(buf),
		Lifecycle: notifier,
	})

	require.NoError(t, srv.ActivateServer(8080))
	require.NoError(t, srv.ActivateConsole())
	require.NoError(t, srv.ActivateHealth())

	notifier.Publish(lifecycle.ContextStarted{})

	out := buf.String()
	assert.Contains(t, out, "HTTP endpoints summary")
	assert.Contains(t, out, "http://0.0.0.0:8080/health")
	assert.Contains(t, out, "http://0.0.0.0:8080/dev")
}

func TestServer_ActivateWithoutRouterFails(t *testing.T) {
	srv := introspection.NewServer(introspection.Config{
		Health:  health.NewRegistry(""),
		Console: console.NewRegistry(false),
		Logger:  zerolog.New(io.Discard),
	})

	err := srv.ActivateHealth()
	require.Error(t, err)
	assert.ErrorIs(t, err, introspection.ErrNoRouter)
}
