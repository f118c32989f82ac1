package reader

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a reader named name from its driver config.
type Factory func(name string, cfg map[string]any) (Reader, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register is called from each driver's init().
func Register(kind string, f Factory) {
	mu.Lock()
	registry[kind] = f
	mu.Unlock()
}

// New returns a reader built by the driver registered for kind.
func New(kind, name string, cfg map[string]any) (Reader, error) {
	mu.RLock()
	f, ok := registry[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("reader: unknown driver %q", kind)
	}
	return f(name, cfg)
}

// Kinds lists the registered driver kinds.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
