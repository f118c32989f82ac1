package builtin

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"lector/options"
	"lector/token"
	"lector/transform"
)

// DefaultMaxRunes caps a sentence when max_runes is unset.
const DefaultMaxRunes = 256

type SentenceConfig struct {
	MaxRunes int `koanf:"max_runes"`
}

// Sentence splits text tokens after sentence and clause punctuation. A
// segment longer than max_runes is cut at the limit. Per-call options may
// override max_runes.
func Sentence(name string, cfg SentenceConfig) transform.Func {
	return transform.Func{
		ID: name,
		Fn: func(_ context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error) {
			c := cfg
			if err := options.Decode(opts, &c); err != nil {
				return nil, fmt.Errorf("sentence: %w", err)
			}
			if c.MaxRunes <= 0 {
				c.MaxRunes = DefaultMaxRunes
			}
			out := make(token.Tokens, 0, len(tokens))
			for _, tok := range tokens {
				s, ok := tok.Text()
				if !ok || tok.Type != token.TypeText {
					out = append(out, tok)
					continue
				}
				for _, seg := range SplitSentences(s, c.MaxRunes) {
					out = append(out, tok.With(seg, nil))
				}
			}
			return out, nil
		},
	}
}

// SplitSentences cuts s after every boundary rune. Separators between two
// digits, as in 9.9 or 10:15, are not boundaries. Whitespace around each
// segment is trimmed and empty segments are dropped.
func SplitSentences(s string, maxRunes int) []string {
	rs := []rune(s)
	var (
		out   []string
		start int
	)
	emit := func(end int) {
		if seg := strings.TrimSpace(string(rs[start:end])); seg != "" {
			out = append(out, seg)
		}
		start = end
	}
	for i, r := range rs {
		// Runs of punctuation ("...", "?!") stay with their sentence.
		boundary := isBoundary(rs, i, r) && (i+1 == len(rs) || !isBoundary(rs, i+1, rs[i+1]))
		if boundary || (maxRunes > 0 && i+1-start >= maxRunes) {
			emit(i + 1)
		}
	}
	emit(len(rs))
	return out
}

func isBoundary(rs []rune, i int, r rune) bool {
	switch r {
	case '.', ':', ',', '：':
		if i > 0 && i < len(rs)-1 && unicode.IsNumber(rs[i-1]) && unicode.IsNumber(rs[i+1]) {
			return false
		}
		return true
	case '，', '；', '。', '？', '！', '…', '～',
		'?', '!', '¿', '¡', ';', '~',
		'\r', '\n', '„', '・':
		return true
	}
	return false
}
