// Package stdout is a reader that writes each claimed token as a line.
package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"lector/options"
	"lector/reader"
	"lector/token"
)

// MetaLine is where Preload leaves the rendered line for Read.
const MetaLine = "stdout.line"

/* ────────── driver config ────────── */
type Config struct {
	DelayMS      int      `koanf:"delay_ms"`      // artificial per-token delay
	PrintCounter bool     `koanf:"print_counter"` // prepend seq#
	Types        []string `koanf:"types"`         // empty = every type
}

/* ────────── driver ────────── */
type Reader struct {
	name string
	cfg  Config

	mu  sync.Mutex // serialises writes
	out io.Writer
	seq atomic.Uint64
}

// New returns a reader writing to out, or os.Stdout when out is nil.
func New(name string, cfg Config, out io.Writer) *Reader {
	if out == nil {
		out = os.Stdout
	}
	return &Reader{name: name, cfg: cfg, out: out}
}

func (r *Reader) Name() string { return r.name }

/* ────────── reader.Reader ────────── */

// Read claims tokens of the configured types. Per-call options may override
// delay_ms.
func (r *Reader) Read(ctx context.Context, tok *token.Token, opts map[string]any) reader.Verdict {
	if !r.accepts(tok) {
		return reader.Decline()
	}
	delay := r.delay(opts)
	line, ok := tok.Meta().Value(MetaLine).(string)
	if !ok {
		line = render(tok)
	}
	return reader.Accept(reader.Go(ctx, func(ctx context.Context) error {
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return r.write(line)
	}))
}

/* ────────── reader.Preloader ────────── */

func (r *Reader) Preload(_ context.Context, tok *token.Token, _ map[string]any) bool {
	if !r.accepts(tok) {
		return false
	}
	tok.Meta().Set(MetaLine, render(tok))
	return true
}

/* ────────── internals ────────── */

func (r *Reader) accepts(tok *token.Token) bool {
	return len(r.cfg.Types) == 0 || slices.Contains(r.cfg.Types, tok.Type)
}

func (r *Reader) delay(opts map[string]any) time.Duration {
	var o Config
	if err := options.Decode(opts, &o); err == nil && o.DelayMS > 0 {
		return time.Duration(o.DelayMS) * time.Millisecond
	}
	return time.Duration(r.cfg.DelayMS) * time.Millisecond
}

func (r *Reader) write(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.PrintCounter {
		line = fmt.Sprintf("[%06d] %s", r.seq.Add(1), line)
	}
	_, err := fmt.Fprintln(r.out, line)
	return err
}

func render(tok *token.Token) string { return tok.String() }

/* ────────── auto-register ────────── */
func init() {
	reader.Register("stdout", func(name string, cfg map[string]any) (reader.Reader, error) {
		var c Config
		if err := options.Decode(cfg, &c); err != nil {
			return nil, fmt.Errorf("stdout-reader: %w", err)
		}
		return New(name, c, nil), nil
	})
}
