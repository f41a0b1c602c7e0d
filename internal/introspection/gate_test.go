package introspection_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegate/pulsegate/internal/introspection"
)

func TestGate_ActivateRunsSetupOnce(t *testing.T) {
	gate := introspection.NewGate()

	var calls int
	for i := 0; i < 5; i++ {
		err := gate.Activate(introspection.FeatureHealth, func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, calls)
	assert.True(t, gate.Activated(introspection.FeatureHealth))
}

func TestGate_ConcurrentActivationSingleWinner(t *testing.T) {
	gate := introspection.NewGate()

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = gate.Activate(introspection.FeatureServer, func() error {
				calls.Add(1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
}

func TestGate_SetupErrorIsWrappedAndFlagStays(t *testing.T) {
	gate := introspection.NewGate()

	cause := errors.New("port already bound")
	err := gate.Activate(introspection.FeatureConsole, func() error {
		return cause
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "activate console")

	// no unset-on-failure: later attempts are no-ops
	var calls int
	err = gate.Activate(introspection.FeatureConsole, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.True(t, gate.Activated(introspection.FeatureConsole))
}

func TestGate_FeaturesAreIndependent(t *testing.T) {
	gate := introspection.NewGate()

	require.NoError(t, gate.Activate(introspection.FeatureServer, func() error { return nil }))

	assert.True(t, gate.Activated(introspection.FeatureServer))
	assert.False(t, gate.Activated(introspection.FeatureConsole))
	assert.False(t, gate.Activated(introspection.FeatureHealth))
}

func TestGate_UnknownFeature(t *testing.T) {
	gate := introspection.NewGate()

	err := gate.Activate(introspection.Feature("metrics"), func() error { return nil })

	require.Error(t, err)
	assert.False(t, gate.Activated(introspection.Feature("metrics")))
}
