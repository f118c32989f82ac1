// Package token defines the unit of data that flows through a lector pipeline.
//
// A Token is a typed value plus the options it was created with. Type, Value
// and Options are treated as read-only once a token leaves the transformer
// that built it; transformers derive new tokens with Clone. The only mutable
// part is the Meta side-table, which readers, preloaders and lifecycle
// listeners use to hand state to each other for the same token instance.
package token

import (
	"fmt"
	"maps"
)

// TypeText is the type of the seed token built from raw source text.
const TypeText = "text"

type Token struct {
	Type    string
	Value   any
	Options map[string]any

	meta *Meta
}

// New builds a token. opts and meta are copied.
func New(typ string, value any, opts map[string]any, meta map[string]any) *Token {
	t := &Token{
		Type:    typ,
		Value:   value,
		Options: copyMap(opts),
		meta:    newMeta(meta),
	}
	return t
}

// Meta returns the token's metadata side-table.
func (t *Token) Meta() *Meta {
	if t.meta == nil {
		t.meta = newMeta(nil)
	}
	return t.meta
}

// Clone returns a new token with the same type, value and options and a
// fresh metadata table seeded from meta. Metadata of t is not carried over.
func (t *Token) Clone(meta map[string]any) *Token {
	return New(t.Type, t.Value, t.Options, meta)
}

// With returns a clone whose value is replaced.
func (t *Token) With(value any, meta map[string]any) *Token {
	c := t.Clone(meta)
	c.Value = value
	return c
}

// Text returns the value as a string and whether it was one.
func (t *Token) Text() (string, bool) {
	s, ok := t.Value.(string)
	return s, ok
}

func (t *Token) String() string {
	return fmt.Sprintf("%s:%v", t.Type, t.Value)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	maps.Copy(out, m)
	return out
}
