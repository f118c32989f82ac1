package token

import (
	"maps"
	"sync"
)

// Meta is a per-token key/value table guarded for concurrent use. Readers
// often touch it from the goroutine that settles their claim while listeners
// inspect it from another.
type Meta struct {
	mu sync.RWMutex
	kv map[string]any
}

func newMeta(seed map[string]any) *Meta {
	return &Meta{kv: copyMap(seed)}
}

func (m *Meta) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	return v, ok
}

// Value returns the value for key, or nil.
func (m *Meta) Value(key string) any {
	v, _ := m.Get(key)
	return v
}

func (m *Meta) Set(key string, value any) {
	m.mu.Lock()
	m.kv[key] = value
	m.mu.Unlock()
}

func (m *Meta) Delete(key string) {
	m.mu.Lock()
	delete(m.kv, key)
	m.mu.Unlock()
}

// Snapshot returns a shallow copy of the table.
func (m *Meta) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]any, len(m.kv))
	maps.Copy(out, m.kv)
	return out
}
