package builtin

import (
	"lector/token"
	"lector/transform"
)

// Chunk splits text tokens into one token per rune.
func Chunk(name string) transform.Func {
	return transform.Map(name, func(tok *token.Token, _ map[string]any) token.Output {
		s, ok := tok.Text()
		if !ok || tok.Type != token.TypeText {
			return tok
		}
		out := make(token.Tokens, 0, len(s))
		for _, r := range s {
			out = append(out, tok.With(string(r), nil))
		}
		return out
	})
}
