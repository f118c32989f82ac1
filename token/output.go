package token

// Output is what a transformer hands to the next stage. It is one of
// *Token, Tokens or Group; a Group may nest further Outputs to any depth.
type Output interface {
	appendTo(dst Tokens) Tokens
}

// Tokens is a flat, ordered token sequence.
type Tokens []*Token

// Group is an ordered, possibly nested, collection of outputs.
type Group []Output

func (t *Token) appendTo(dst Tokens) Tokens {
	if t == nil {
		return dst
	}
	return append(dst, t)
}

func (ts Tokens) appendTo(dst Tokens) Tokens {
	for _, t := range ts {
		dst = t.appendTo(dst)
	}
	return dst
}

func (g Group) appendTo(dst Tokens) Tokens {
	for _, o := range g {
		if o == nil {
			continue
		}
		dst = o.appendTo(dst)
	}
	return dst
}

// Flatten collapses out into one flat ordered sequence. Nil entries are
// dropped.
func Flatten(out Output) Tokens {
	if out == nil {
		return Tokens{}
	}
	return out.appendTo(make(Tokens, 0, 4))
}
