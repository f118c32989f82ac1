package reader

import (
	"context"

	"lector/token"
)

// Reader consumes tokens. Read either declines a token, leaving it for the
// next reader, or claims it by returning a Claim that settles once the token
// has been consumed.
type Reader interface {
	Name() string
	Read(ctx context.Context, tok *token.Token, opts map[string]any) Verdict
}

// Preloader is optional; readers implement it to start work on a token
// before their Read is invoked. Returning true stops the engine from offering
// the token to further preloaders.
type Preloader interface {
	Preload(ctx context.Context, tok *token.Token, opts map[string]any) bool
}

// Verdict is the outcome of offering a token to a reader: declined, or
// claimed with a Claim.
type Verdict struct {
	claim *Claim
}

func Decline() Verdict { return Verdict{} }

// Accept claims the token. A nil claim is treated as already settled.
func Accept(c *Claim) Verdict {
	if c == nil {
		c = Settled(nil)
	}
	return Verdict{claim: c}
}

// Claim returns the claim and true if the token was claimed.
func (v Verdict) Claim() (*Claim, bool) {
	return v.claim, v.claim != nil
}

func (v Verdict) Claimed() bool { return v.claim != nil }
