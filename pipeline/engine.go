package pipeline

import (
	"fmt"
	"maps"
	"strings"

	"lector/events"
	"lector/internal/telemetry"
	"lector/options"
	"lector/reader"
	"lector/transform"
)

// Metadata keys the engine writes.
const (
	MetaReader    = "reader"
	MetaPreloader = "preloader"
	MetaBatch     = "batch"
)

type Engine struct {
	readers      []reader.Reader
	transformers []transform.Transformer

	store   *options.Store
	bus     *events.Bus
	metrics *telemetry.Metrics
	queue   *serialQueue
}

// Option configures an Engine.
type Option func(*Engine)

func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithBus shares an existing event bus.
func WithBus(b *events.Bus) Option {
	return func(e *Engine) { e.bus = b }
}

// New builds an engine. The plugin slices are copied, so their order is fixed
// for the engine's lifetime; cfg seeds the option tree.
//
// Plugin names address option subtrees, so they must be unique per category
// and must not contain options.Delim. An unnamed plugin is addressed as
// options.Anonymous; at most one per category may be unnamed.
func New(readers []reader.Reader, transformers []transform.Transformer, cfg map[string]any, opts ...Option) (*Engine, error) {
	seen := map[string]bool{}
	for _, r := range readers {
		if err := checkName("reader", nameOf(r), seen); err != nil {
			return nil, err
		}
	}
	seen = map[string]bool{}
	for _, t := range transformers {
		if err := checkName("transformer", nameOf(t), seen); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		readers:      append([]reader.Reader(nil), readers...),
		transformers: append([]transform.Transformer(nil), transformers...),
		store:        options.New(cfg),
		queue:        newSerialQueue(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = events.NewBus()
	}
	return e, nil
}

func checkName(kind, name string, seen map[string]bool) error {
	if strings.Contains(name, options.Delim) {
		return fmt.Errorf("pipeline: %s name %q must not contain %q", kind, name, options.Delim)
	}
	if seen[name] {
		return fmt.Errorf("pipeline: two %ss share the name %q", kind, name)
	}
	seen[name] = true
	return nil
}

func nameOf(p interface{ Name() string }) string {
	if n := p.Name(); n != "" {
		return n
	}
	return options.Anonymous
}

// SetOption writes value at path.
func (e *Engine) SetOption(path any, value any) error {
	return e.store.Set(path, value)
}

// GetOption returns the value at path, or def when absent.
func (e *Engine) GetOption(path any, def any) (any, error) {
	return e.store.Get(path, def)
}

// SetOptions replaces the given top-level keys.
func (e *Engine) SetOptions(partial map[string]any) *Engine {
	e.store.Merge(partial)
	return e
}

// Options returns a copy of the whole option tree.
func (e *Engine) Options() map[string]any {
	return e.store.All()
}

// On subscribes fn to a lifecycle event.
func (e *Engine) On(name string, fn events.Listener) {
	e.bus.On(name, fn)
}

// Bus returns the engine's event bus.
func (e *Engine) Bus() *events.Bus { return e.bus }

// subtree shallow-merges invocation[key] over the store's key subtree.
func (e *Engine) subtree(key string, invocation map[string]any) map[string]any {
	out := e.store.Sub(key)
	if over, ok := invocation[key].(map[string]any); ok {
		maps.Copy(out, over)
	}
	return out
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func (e *Engine) readOptions(invocation map[string]any) (serial, preload bool) {
	ro := e.subtree("read", invocation)
	return options.Truthy(ro["serial"]), options.Truthy(ro["preload"])
}
