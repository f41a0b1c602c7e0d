// Package main provides the entrypoint for the pulsegate introspection
// server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pulsegate/pulsegate/internal/checks"
	"github.com/pulsegate/pulsegate/internal/console"
	"github.com/pulsegate/pulsegate/internal/health"
	"github.com/pulsegate/pulsegate/internal/introspection"
	"github.com/pulsegate/pulsegate/internal/lifecycle"
	"github.com/pulsegate/pulsegate/internal/middleware"
	"github.com/pulsegate/pulsegate/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "pulsegate"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting pulsegate")

	port, err := strconv.Atoi(getEnvOrDefault("APP_PORT", "8080"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid APP_PORT")
	}

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    getEnvOrDefault("APP_ENV", "development"),
		OTLPEndpoint:   getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Enabled:        os.Getenv("OTEL_ENABLED") == "true",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	healthRegistry := buildHealthRegistry(ctx, log)
	consoleRegistry := console.NewRegistry(getEnvOrDefault("CONSOLE_ENABLED", "true") == "true")
	consoleRegistry.Register(console.NewRuntimeProvider())

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing())
	router.Use(metrics.Middleware())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	notifier := lifecycle.NewNotifier()

	srv := introspection.NewServer(introspection.Config{
		Router:           router,
		Health:           healthRegistry,
		Console:          consoleRegistry,
		Logger:           log,
		Lifecycle:        notifier,
		ConsoleRateLimit: 30,
	})
	consoleRegistry.Register(console.NewEndpointsProvider(srv.Inventory().Snapshot))

	if err := srv.ActivateServer(port); err != nil {
		log.Fatal().Err(err).Msg("failed to activate introspection server")
	}
	if err := srv.ActivateConsole(); err != nil {
		log.Fatal().Err(err).Msg("failed to activate diagnostic console")
	}
	if err := srv.ActivateHealth(); err != nil {
		log.Fatal().Err(err).Msg("failed to activate health endpoints")
	}

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// announce the stable started state so the endpoint summary is logged
	notifier.Publish(lifecycle.ContextStarted{})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// buildHealthRegistry registers the process liveness check plus whichever
// dependency checks are configured through the environment.
func buildHealthRegistry(ctx context.Context, log zerolog.Logger) *health.Registry {
	registry := health.NewRegistry(os.Getenv("HEALTH_EXPOSURE_LEVEL"))

	registry.Register(health.NewFuncCheck("process", true, false, func(context.Context) health.Result {
		return health.Up("process")
	}))

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create database pool")
		}
		registry.Register(checks.NewPostgres(pool))
		log.Info().Msg("postgres health check registered")
	}

	project := os.Getenv("PUBSUB_PROJECT_ID")
	topic := os.Getenv("PUBSUB_TOPIC")
	if project != "" && topic != "" {
		client, err := pubsub.NewClient(ctx, project)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub client")
		}
		registry.Register(checks.NewPubSub(client, project, topic))
		log.Info().Str("topic", topic).Msg("pubsub health check registered")
	}

	if probeURL := os.Getenv("UPSTREAM_PROBE_URL"); probeURL != "" {
		registry.Register(checks.NewUpstream(checks.UpstreamConfig{
			Name: "upstream",
			URL:  probeURL,
		}))
		log.Info().Str("url", probeURL).Msg("upstream health check registered")
	}

	return registry
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
