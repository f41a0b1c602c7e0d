// Package health aggregates the results of independently produced health
// checks and renders them as the JSON bodies served on /health, /health/live
// and /health/ready.
package health

import "context"

// State is the verdict a single check reports. Providers may report states
// beyond the binary UP/DOWN pair; anything that is not DOWN counts towards
// an overall UP.
type State string

const (
	StateUp      State = "UP"
	StateDown    State = "DOWN"
	StateUnknown State = "UNKNOWN"
)

// Result is the outcome of one check invocation. The renderer consumes it
// read-only.
type Result struct {
	// ID identifies the check that produced this result.
	ID string

	State State

	// Err carries the failure cause when the check went DOWN.
	Err error

	// Message is an optional human-readable summary.
	Message string

	// Details carries extra key/value context. Keys are sorted
	// lexicographically when rendered.
	Details map[string]any
}

// Check is a single pluggable health check provider.
type Check interface {
	ID() string

	// Liveness reports whether the check participates in /health/live.
	Liveness() bool

	// Readiness reports whether the check participates in /health/ready.
	Readiness() bool

	Call(ctx context.Context) Result
}

// Up returns an UP result for the given check id.
func Up(id string) Result {
	return Result{ID: id, State: StateUp}
}

// Down returns a DOWN result carrying the failure cause.
func Down(id string, err error) Result {
	return Result{ID: id, State: StateDown, Err: err}
}

// FuncCheck adapts a closure into a Check.
type FuncCheck struct {
	id        string
	liveness  bool
	readiness bool
	fn        func(ctx context.Context) Result
}

// NewFuncCheck creates a check backed by fn. The liveness and readiness
// flags select which probe categories include it; a check may serve both.
func NewFuncCheck(id string, liveness, readiness bool, fn func(ctx context.Context) Result) *FuncCheck {
	return &FuncCheck{
		id:        id,
		liveness:  liveness,
		readiness: readiness,
		fn:        fn,
	}
}

func (c *FuncCheck) ID() string { return c.id }

func (c *FuncCheck) Liveness() bool { return c.liveness }

func (c *FuncCheck) Readiness() bool { return c.readiness }

func (c *FuncCheck) Call(ctx context.Context) Result { return c.fn(ctx) }
