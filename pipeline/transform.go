package pipeline

import (
	"context"
	"fmt"
	"maps"

	"lector/internal/logging"
	"lector/options"
	"lector/token"
)

// Transform seeds a "text" token from source and reduces it through the
// enabled transformers in registration order. The seed token's options are
// the store's transform.options overlaid with opts.
func (e *Engine) Transform(ctx context.Context, source string, opts map[string]any) (token.Tokens, error) {
	initial := asMap(e.store.Sub("transform")["options"])
	maps.Copy(initial, opts)

	tokens := token.Tokens{token.New(token.TypeText, source, initial, nil)}
	for _, t := range e.transformers {
		name := nameOf(t)
		po := e.store.Plugin(options.Transformers, name)
		if po.Disable {
			logging.L().Debug("pipeline: transformer disabled", "transformer", name)
			continue
		}
		out, err := t.Transform(ctx, tokens, po.Options)
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", name, err)
		}
		tokens = token.Flatten(out)
	}
	e.metrics.Transformed(len(tokens))
	return tokens, nil
}
