package reader

import (
	"context"
	"sync"
)

// Claim is a one-shot asynchronous handle. It settles exactly once, with nil
// on success or the error that consumption failed with.
type Claim struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewClaim returns an unsettled claim; the owner must call Settle.
func NewClaim() *Claim {
	return &Claim{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and returns a claim settled with its result.
func Go(ctx context.Context, fn func(context.Context) error) *Claim {
	c := NewClaim()
	go func() { c.Settle(fn(ctx)) }()
	return c
}

// Settled returns a claim that has already settled with err.
func Settled(err error) *Claim {
	c := NewClaim()
	c.Settle(err)
	return c
}

// Settle records err and wakes waiters. Later calls are ignored.
func (c *Claim) Settle(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

func (c *Claim) Done() <-chan struct{} { return c.done }

// Err returns the settled error; it is nil until the claim settles.
func (c *Claim) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the claim settles or ctx is done.
func (c *Claim) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
