package checks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/pulsegate/pulsegate/internal/health"
)

// UpstreamConfig holds configuration for an upstream HTTP probe.
type UpstreamConfig struct {
	// Name identifies the check and the circuit breaker.
	Name string

	// URL is probed with a GET request.
	URL string

	// Timeout is the per-request timeout. Default: 5 seconds.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts per probe. Default: 2.
	MaxRetries uint64

	// InitialInterval is the initial retry backoff. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff. Default: 2 seconds.
	MaxInterval time.Duration

	// BreakerTimeout is the open-state duration before the breaker allows a
	// trial probe. Default: 30 seconds.
	BreakerTimeout time.Duration
}

// Upstream probes a dependency over HTTP and reports DOWN while its circuit
// breaker is open. Transient probe failures are retried with exponential
// backoff before they count against the breaker.
type Upstream struct {
	name    string
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int]

	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewUpstream creates an upstream probe check.
func NewUpstream(cfg UpstreamConfig) *Upstream {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Upstream{
		name:            cfg.Name,
		url:             cfg.URL,
		client:          &http.Client{Timeout: cfg.Timeout},
		breaker:         breaker,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
	}
}

func (c *Upstream) ID() string { return c.name }

func (c *Upstream) Liveness() bool { return false }

func (c *Upstream) Readiness() bool { return true }

func (c *Upstream) Call(ctx context.Context) health.Result {
	status, err := c.breaker.Execute(func() (int, error) {
		return c.probe(ctx)
	})

	details := map[string]any{
		"url":     c.url,
		"breaker": c.breaker.State().String(),
	}

	if err != nil {
		result := health.Result{
			ID:      c.name,
			State:   health.StateDown,
			Err:     err,
			Details: details,
		}
		if errors.Is(err, gobreaker.ErrOpenState) {
			result.Message = "circuit breaker open"
		}
		return result
	}

	details["status-code"] = status
	return health.Result{
		ID:      c.name,
		State:   health.StateUp,
		Details: details,
	}
}

// probe issues the GET request, retrying transient failures. Server-side
// 5xx responses count as failures so they can trip the breaker.
func (c *Upstream) probe(ctx context.Context) (int, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialInterval
	bo.MaxInterval = c.maxInterval
	bo.MaxElapsedTime = 0

	var status int
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		if resp.StatusCode >= 500 {
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	if err != nil {
		return 0, err
	}
	return status, nil
}
