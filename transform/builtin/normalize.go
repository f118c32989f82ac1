package builtin

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"lector/options"
	"lector/token"
	"lector/transform"
)

type NormalizeConfig struct {
	Form string `koanf:"form"` // NFC (default), NFD, NFKC, NFKD
}

func parseForm(s string) (norm.Form, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NFC":
		return norm.NFC, nil
	case "NFD":
		return norm.NFD, nil
	case "NFKC":
		return norm.NFKC, nil
	case "NFKD":
		return norm.NFKD, nil
	}
	return 0, fmt.Errorf("normalize: unknown form %q", s)
}

// Normalize rewrites text tokens into a Unicode normal form.
func Normalize(name string, cfg NormalizeConfig) (transform.Func, error) {
	if _, err := parseForm(cfg.Form); err != nil {
		return transform.Func{}, err
	}
	fn := func(tok *token.Token, opts map[string]any) (*token.Token, error) {
		s, ok := tok.Text()
		if !ok || tok.Type != token.TypeText {
			return tok, nil
		}
		c := cfg
		if err := options.Decode(opts, &c); err != nil {
			return nil, err
		}
		f, err := parseForm(c.Form)
		if err != nil {
			return nil, err
		}
		if f.IsNormalString(s) {
			return tok, nil
		}
		return tok.With(f.String(s), nil), nil
	}
	return transform.Func{
		ID: name,
		Fn: func(_ context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error) {
			out := make(token.Tokens, 0, len(tokens))
			for _, tok := range tokens {
				t, err := fn(tok, opts)
				if err != nil {
					return nil, err
				}
				out = append(out, t)
			}
			return out, nil
		},
	}, nil
}
