// Package events is the lifecycle event bus the engine publishes to.
//
// Emit notifies listeners synchronously and does not wait on anything they
// start. EmitParallel runs every listener on its own goroutine and returns
// once all of them have finished, with the first error any of them reported.
package events

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"lector/internal/logging"
	"lector/token"
)

// Lifecycle event names.
const (
	Preload    = "preload"
	Read       = "read"
	BeforeRead = "before-read"
	AfterRead  = "after-read"
)

// Event carries either a single token (Preload, Read) or a whole batch
// (BeforeRead, AfterRead).
type Event struct {
	Name   string
	Token  *token.Token
	Tokens token.Tokens
}

type Listener func(ctx context.Context, ev Event) error

type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]Listener)}
}

// On registers fn for name. Listeners run in registration order under Emit.
func (b *Bus) On(name string, fn Listener) {
	b.mu.Lock()
	b.listeners[name] = append(b.listeners[name], fn)
	b.mu.Unlock()
}

func (b *Bus) snapshot(name string) []Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Listener(nil), b.listeners[name]...)
}

// Emit calls each listener in turn. Listener errors are logged, never
// returned: a notification cannot fail the operation that raised it.
func (b *Bus) Emit(ctx context.Context, ev Event) {
	for _, fn := range b.snapshot(ev.Name) {
		if err := fn(ctx, ev); err != nil {
			logging.For("events").Warn("listener failed", "event", ev.Name, "err", err)
		}
	}
}

// EmitParallel runs all listeners for ev.Name concurrently and waits.
func (b *Bus) EmitParallel(ctx context.Context, ev Event) error {
	handlers := b.snapshot(ev.Name)
	if len(handlers) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range handlers {
		fn := fn
		g.Go(func() error { return fn(gctx, ev) })
	}
	return g.Wait()
}
