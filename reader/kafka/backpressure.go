package kafka

import (
	"context"
	"errors"
	"sync"
)

var errLimiterClosed = errors.New("kafka-reader: closed")

// Controller caps the number of produces awaiting a broker answer.
type Controller struct {
	capacity int64

	mu     sync.Mutex
	tokens int64
	cond   *sync.Cond
	closed bool
}

func NewController(capacity int64) *Controller {
	c := &Controller{capacity: capacity, tokens: capacity}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Acquire takes one slot, blocking until one is free, ctx is done or the
// controller is closed.
func (c *Controller) Acquire(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.tokens == 0 && ctx.Err() == nil && !c.closed {
		c.cond.Wait()
	}
	switch {
	case c.closed:
		return errLimiterClosed
	case ctx.Err() != nil:
		return ctx.Err()
	}
	c.tokens--
	return nil
}

func (c *Controller) Release(n int64) {
	c.mu.Lock()
	c.tokens += n
	if c.tokens > c.capacity {
		c.tokens = c.capacity
	}
	c.mu.Unlock()
	c.cond.Broadcast()
}

// InFlight reports how many slots are taken.
func (c *Controller) InFlight() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity - c.tokens
}

func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cond.Broadcast()
}
