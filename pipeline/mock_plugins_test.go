package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"lector/options"
	"lector/reader"
	"lector/token"
	"lector/transform"
)

var cloneTransformer = transform.Func{
	ID: "clone",
	Fn: func(_ context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error) {
		if options.Truthy(opts["noop"]) {
			return tokens, nil
		}
		out := make(token.Tokens, 0, len(tokens))
		for _, t := range tokens {
			out = append(out, t.Clone(map[string]any{"transformer": "clone"}))
		}
		return out, nil
	},
}

var chunkTransformer = transform.Map("chunk", func(t *token.Token, _ map[string]any) token.Output {
	s, ok := t.Text()
	if !ok || t.Type != token.TypeText {
		return t
	}
	var out token.Tokens
	for _, r := range s {
		out = append(out, token.New(token.TypeText, string(r), t.Options, map[string]any{"transformer": "chunk"}))
	}
	return out
})

var allReplaceTransformer = transform.Func{
	ID: "all",
	Fn: func(context.Context, token.Tokens, map[string]any) (token.Output, error) {
		return token.New(token.TypeText, "this is it", nil, map[string]any{"transformer": "all"}), nil
	},
}

// nestedTransformer returns [[a, [b]], c] for every input.
var nestedTransformer = transform.Func{
	ID: "nested",
	Fn: func(context.Context, token.Tokens, map[string]any) (token.Output, error) {
		a := token.New(token.TypeText, "a", nil, nil)
		b := token.New(token.TypeText, "b", nil, nil)
		c := token.New(token.TypeText, "c", nil, nil)
		return token.Group{token.Group{a, token.Group{b}}, c}, nil
	},
}

// noopReader claims every token unless its options say noop.
type noopReader struct {
	name  string
	calls atomic.Int32
}

func (r *noopReader) Name() string { return r.name }

func (r *noopReader) Read(_ context.Context, _ *token.Token, opts map[string]any) reader.Verdict {
	r.calls.Add(1)
	if options.Truthy(opts["noop"]) {
		return reader.Decline()
	}
	return reader.Accept(reader.Settled(nil))
}

// declineReader never claims.
type declineReader struct {
	name  string
	calls atomic.Int32
}

func (r *declineReader) Name() string { return r.name }

func (r *declineReader) Read(context.Context, *token.Token, map[string]any) reader.Verdict {
	r.calls.Add(1)
	return reader.Decline()
}

// delayReader claims every token and settles after delay.
type delayReader struct {
	delay time.Duration
}

func (r *delayReader) Name() string { return "delay" }

func (r *delayReader) Read(ctx context.Context, _ *token.Token, _ map[string]any) reader.Verdict {
	return reader.Accept(reader.Go(ctx, func(context.Context) error {
		time.Sleep(r.delay)
		return nil
	}))
}

// failReader claims tokens whose value is "bad" and fails them; others it
// claims successfully.
type failReader struct{ err error }

func (r *failReader) Name() string { return "fail" }

func (r *failReader) Read(_ context.Context, tok *token.Token, _ map[string]any) reader.Verdict {
	if tok.Value == "bad" {
		return reader.Accept(reader.Settled(r.err))
	}
	return reader.Accept(nil)
}

// preloadReader stashes a pending claim in meta during preload and waits for
// it in Read.
type preloadReader struct {
	sawPreload atomic.Bool
}

func (r *preloadReader) Name() string { return "preload" }

func (r *preloadReader) Preload(ctx context.Context, tok *token.Token, _ map[string]any) bool {
	tok.Meta().Set("preload.claim", reader.Go(ctx, func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	}))
	return true
}

func (r *preloadReader) Read(ctx context.Context, tok *token.Token, _ map[string]any) reader.Verdict {
	pending, ok := tok.Meta().Value("preload.claim").(*reader.Claim)
	if !ok {
		return reader.Decline()
	}
	r.sawPreload.Store(true)
	return reader.Accept(reader.Go(ctx, pending.Wait))
}
