package introspection

import "sync"

// Inventory is the append-only set of URL paths exposed over HTTP.
// Endpoints are never de-registered at runtime. Safe for concurrent use.
type Inventory struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{paths: make(map[string]struct{})}
}

// Add records an exposed path. Duplicate adds are no-ops.
func (i *Inventory) Add(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.paths[path] = struct{}{}
}

// Snapshot returns a copy of the current endpoint set. Order is unspecified.
func (i *Inventory) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	paths := make([]string, 0, len(i.paths))
	for p := range i.paths {
		paths = append(paths, p)
	}
	return paths
}

// Len returns the number of recorded endpoints.
func (i *Inventory) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.paths)
}
