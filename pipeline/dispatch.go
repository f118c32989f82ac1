package pipeline

import (
	"context"

	"lector/events"
	"lector/options"
	"lector/reader"
	"lector/token"
)

// dispatchOne offers tok to the enabled readers in order. The first reader to
// claim it wins and later readers never see it.
func (e *Engine) dispatchOne(ctx context.Context, tok *token.Token) (*reader.Claim, error) {
	for _, r := range e.readers {
		name := nameOf(r)
		po := e.store.Plugin(options.Readers, name)
		if po.Disable {
			continue
		}
		c, ok := r.Read(ctx, tok, po.Options).Claim()
		if !ok {
			continue
		}
		tok.Meta().Set(MetaReader, r)
		e.bus.Emit(ctx, events.Event{Name: events.Read, Token: tok})
		e.metrics.Dispatched(name)
		return c, nil
	}
	e.metrics.Unclaimed()
	return nil, &UnclaimedTokenError{Type: tok.Type, Value: tok.Value}
}

// preload gives each token, independently, to the first enabled preloader
// that accepts it. Work a preloader starts is not awaited.
func (e *Engine) preload(ctx context.Context, tokens token.Tokens) {
	for _, tok := range tokens {
		for _, r := range e.readers {
			p, ok := r.(reader.Preloader)
			if !ok {
				continue
			}
			name := nameOf(r)
			po := e.store.Plugin(options.Readers, name)
			if po.Disable {
				continue
			}
			if p.Preload(ctx, tok, po.Options) {
				tok.Meta().Set(MetaPreloader, r)
				e.bus.Emit(ctx, events.Event{Name: events.Preload, Token: tok})
				e.metrics.Preloaded(name)
				break
			}
		}
	}
}
