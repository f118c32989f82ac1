// Package options holds the engine's nested configuration tree.
//
// Paths address nodes in the tree either as a dotted string ("readers.noop.disable")
// or as an ordered key sequence ([]string{"readers", "noop", "disable"}). Keys
// themselves must not contain the delimiter; a sequence segment that does is
// an invalid path.
package options

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/v2"
)

// Delim separates path segments.
const Delim = "."

// Plugin categories.
const (
	Readers      = "readers"
	Transformers = "transformers"
)

// Anonymous is the bucket unnamed plugins resolve their options from. All
// unnamed plugins of one category share it.
const Anonymous = "anonymous"

// PluginOptions is the resolved per-plugin configuration.
type PluginOptions struct {
	Disable bool
	Options map[string]any
}

// Store is a concurrency-safe nested configuration tree.
type Store struct {
	mu sync.RWMutex
	k  *koanf.Koanf
}

// New returns a store seeded with a copy of initial.
func New(initial map[string]any) *Store {
	s := &Store{k: koanf.New(Delim)}
	s.Merge(initial)
	return s
}

// Set replaces the value at path, creating intermediate nodes as needed.
// An empty path is a no-op.
func (s *Store) Set(path any, value any) error {
	key, err := keyOf(path)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, value)
	return nil
}

func (s *Store) setLocked(key string, value any) {
	if m, ok := value.(map[string]any); ok {
		value = maps.Copy(m)
	}
	s.k.Delete(key)
	_ = s.k.Set(key, value)
}

// Get returns the value at path, or def when any segment is absent. The value
// comes back deep-copied, so a stored pointer is returned as a new pointer to
// an equal value. Scalars, strings and maps compare equal to what was set.
func (s *Store) Get(path any, def any) (any, error) {
	key, err := keyOf(path)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return def, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.k.Exists(key) {
		return def, nil
	}
	return s.k.Get(key), nil
}

// Bool reports whether the value at path is truthy.
func (s *Store) Bool(path any) (bool, error) {
	v, err := s.Get(path, nil)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// Sub returns a copy of the mapping at key, or an empty mapping when key is
// absent or not a mapping.
func (s *Store) Sub(key string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.k.Get(key).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// All returns a deep copy of the whole tree.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.k.Raw()
}

// Merge replaces each top-level key of partial. Keys absent from partial are
// left untouched.
func (s *Store) Merge(partial map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range partial {
		s.setLocked(k, v)
	}
}

// Plugin resolves "<category>.<name>" into its disable flag and options.
func (s *Store) Plugin(category, name string) PluginOptions {
	if name == "" {
		name = Anonymous
	}
	base := category + Delim + name + Delim

	s.mu.RLock()
	defer s.mu.RUnlock()
	po := PluginOptions{
		Disable: Truthy(s.k.Get(base + "disable")),
		Options: map[string]any{},
	}
	if m, ok := s.k.Get(base + "options").(map[string]any); ok {
		po.Options = m
	}
	return po
}

// Truthy interprets config values the way flags are written in YAML and env
// overrides.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
			return b
		}
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

func keyOf(path any) (string, error) {
	switch p := path.(type) {
	case string:
		return p, nil
	case []string:
		for _, seg := range p {
			if strings.Contains(seg, Delim) {
				return "", &InvalidPathError{Path: path}
			}
		}
		return strings.Join(p, Delim), nil
	case []any:
		parts := make([]string, len(p))
		for i, seg := range p {
			switch s := seg.(type) {
			case string:
				if strings.Contains(s, Delim) {
					return "", &InvalidPathError{Path: path}
				}
				parts[i] = s
			case int, int32, int64, uint, uint32, uint64:
				parts[i] = fmt.Sprint(s)
			default:
				return "", &InvalidPathError{Path: path}
			}
		}
		return strings.Join(parts, Delim), nil
	default:
		return "", &InvalidPathError{Path: path}
	}
}
