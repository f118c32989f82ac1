package transform

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lector/token"
)

type Transformer interface {
	Name() string
	Transform(ctx context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error)
}

// Func adapts a plain function to Transformer.
type Func struct {
	ID string
	Fn func(ctx context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error)
}

func (f Func) Name() string { return f.ID }

func (f Func) Transform(ctx context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error) {
	return f.Fn(ctx, tokens, opts)
}

// Map returns a transformer that applies fn to each token independently.
// Returning nil from fn drops the token.
func Map(name string, fn func(tok *token.Token, opts map[string]any) token.Output) Func {
	return Func{
		ID: name,
		Fn: func(_ context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error) {
			out := make(token.Group, 0, len(tokens))
			for _, t := range tokens {
				out = append(out, fn(t, opts))
			}
			return out, nil
		},
	}
}

/*──────── registry ───────*/

// Factory builds an in-process transformer named name.
type Factory func(name string, cfg map[string]any) (Transformer, error)

var (
	mu  sync.RWMutex
	reg = map[string]Factory{}
)

func Register(kind string, f Factory) {
	mu.Lock()
	reg[kind] = f
	mu.Unlock()
}

func New(kind, name string, cfg map[string]any) (Transformer, error) {
	mu.RLock()
	f, ok := reg[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transform: unknown kind %q", kind)
	}
	return f(name, cfg)
}

func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
