package checks_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pulsegate/pulsegate/internal/checks"
	"github.com/pulsegate/pulsegate/internal/health"
)

func testUpstream(url string) *checks.Upstream {
	return checks.NewUpstream(checks.UpstreamConfig{
		Name:            "upstream",
		URL:             url,
		Timeout:         time.Second,
		MaxRetries:      1,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		BreakerTimeout:  time.Minute,
	})
}

func TestUpstream_Up(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	check := testUpstream(srv.URL)
	result := check.Call(context.Background())

	assert.Equal(t, health.StateUp, result.State)
	assert.Equal(t, http.StatusOK, result.Details["status-code"])
	assert.True(t, check.Readiness())
	assert.False(t, check.Liveness())
}

func TestUpstream_ServerErrorIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	check := testUpstream(srv.URL)
	result := check.Call(context.Background())

	assert.Equal(t, health.StateDown, result.State)
	assert.Error(t, result.Err)
}

func TestUpstream_ClientErrorIsUp(t *testing.T) {
	// 4xx means the upstream answered; only 5xx and transport errors
	// count as failures
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	check := testUpstream(srv.URL)
	result := check.Call(context.Background())

	assert.Equal(t, health.StateUp, result.State)
	assert.Equal(t, http.StatusNotFound, result.Details["status-code"])
}

func TestUpstream_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	check := testUpstream(srv.URL)

	for i := 0; i < 3; i++ {
		result := check.Call(context.Background())
		assert.Equal(t, health.StateDown, result.State)
	}

	hitsBeforeOpen := hits
	result := check.Call(context.Background())

	assert.Equal(t, health.StateDown, result.State)
	assert.Equal(t, "circuit breaker open", result.Message)
	assert.Equal(t, hitsBeforeOpen, hits, "open breaker must not probe the upstream")
}

func TestUpstream_DetailsCarryBreakerState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	check := testUpstream(srv.URL)
	result := check.Call(context.Background())

	assert.Equal(t, srv.URL, result.Details["url"])
	assert.Equal(t, "closed", result.Details["breaker"])
}
