package console

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

// RuntimeProvider reports process-level runtime statistics.
type RuntimeProvider struct {
	started time.Time
}

// NewRuntimeProvider creates a runtime console. Uptime is measured from the
// moment of construction.
func NewRuntimeProvider() *RuntimeProvider {
	return &RuntimeProvider{started: time.Now()}
}

func (p *RuntimeProvider) DisplayName() string { return "Runtime" }

func (p *RuntimeProvider) SupportsMediaType(kind MediaType) bool {
	return kind == MediaTypeText
}

func (p *RuntimeProvider) Render(kind MediaType) string {
	if kind != MediaTypeText {
		return ""
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var sb strings.Builder
	fmt.Fprintf(&sb, "    go version: %s\n", runtime.Version())
	fmt.Fprintf(&sb, "    uptime: %s\n", time.Since(p.started).Round(time.Second))
	fmt.Fprintf(&sb, "    goroutines: %d\n", runtime.NumGoroutine())
	fmt.Fprintf(&sb, "    heap in use: %d KiB\n", m.HeapInuse/1024)
	fmt.Fprintf(&sb, "    gc runs: %d", m.NumGC)
	return sb.String()
}

// EndpointsProvider lists the HTTP endpoints currently exposed by the
// process. The snapshot function is supplied by the endpoint inventory so
// this package stays decoupled from the activation wiring.
type EndpointsProvider struct {
	snapshot func() []string
}

// NewEndpointsProvider creates an endpoints console reading from snapshot.
func NewEndpointsProvider(snapshot func() []string) *EndpointsProvider {
	return &EndpointsProvider{snapshot: snapshot}
}

func (p *EndpointsProvider) DisplayName() string { return "HTTP Endpoints" }

func (p *EndpointsProvider) SupportsMediaType(kind MediaType) bool {
	return kind == MediaTypeText
}

func (p *EndpointsProvider) Render(kind MediaType) string {
	if kind != MediaTypeText {
		return ""
	}

	paths := p.snapshot()
	if len(paths) == 0 {
		return ""
	}
	sort.Strings(paths)

	lines := make([]string, len(paths))
	for i, path := range paths {
		lines[i] = "    " + path
	}
	return strings.Join(lines, "\n")
}
