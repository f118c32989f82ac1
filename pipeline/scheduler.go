package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"lector/events"
	"lector/internal/logging"
	"lector/reader"
	"lector/token"
)

const (
	modeSerial   = "serial"
	modeParallel = "parallel"
)

// Batch is one submitted read.
type Batch struct {
	ID     string
	Tokens token.Tokens

	done *reader.Claim
}

// Done is closed once the batch has settled.
func (b *Batch) Done() <-chan struct{} { return b.done.Done() }

// Err returns the batch error once settled.
func (b *Batch) Err() error { return b.done.Err() }

// Wait blocks until the batch settles and returns its tokens.
func (b *Batch) Wait(ctx context.Context) (token.Tokens, error) {
	if err := b.done.Wait(ctx); err != nil {
		return nil, err
	}
	return b.Tokens, nil
}

func failedBatch(err error) *Batch {
	return &Batch{ID: uuid.Must(uuid.NewV7()).String(), done: reader.Settled(err)}
}

// serialQueue chains batches so each starts after its predecessor settles.
type serialQueue struct {
	mu   sync.Mutex
	tail chan struct{}
}

func newSerialQueue() *serialQueue {
	tail := make(chan struct{})
	close(tail)
	return &serialQueue{tail: tail}
}

// enqueue takes the next slot. The caller waits on prev and must call
// release exactly once, after prev is closed.
func (q *serialQueue) enqueue() (prev <-chan struct{}, release func()) {
	next := make(chan struct{})
	q.mu.Lock()
	prev, q.tail = q.tail, next
	q.mu.Unlock()
	return prev, func() { close(next) }
}

// Read transforms text and reads the resulting tokens. invocation may carry
// "transform" and "read" subtrees that overlay the stored ones for this call.
func (e *Engine) Read(ctx context.Context, text string, invocation map[string]any) (token.Tokens, error) {
	tokens, err := e.Transform(ctx, text, asMap(e.subtree("transform", invocation)["options"]))
	if err != nil {
		return nil, err
	}
	return e.Submit(ctx, tokens, invocation).Wait(ctx)
}

// ReadTokens reads already-transformed tokens.
func (e *Engine) ReadTokens(ctx context.Context, tokens token.Tokens, invocation map[string]any) (token.Tokens, error) {
	return e.Submit(ctx, tokens, invocation).Wait(ctx)
}

// SubmitText transforms text and submits the tokens. A transform error comes
// back as an already-settled batch.
func (e *Engine) SubmitText(ctx context.Context, text string, invocation map[string]any) *Batch {
	tokens, err := e.Transform(ctx, text, asMap(e.subtree("transform", invocation)["options"]))
	if err != nil {
		return failedBatch(err)
	}
	return e.Submit(ctx, tokens, invocation)
}

// Submit schedules tokens for reading and returns without waiting. With
// read.preload set the preload pass has run by the time Submit returns. With
// read.serial set the batch has already taken its place in the engine's
// queue, so batches submitted from one goroutine are read in call order.
func (e *Engine) Submit(ctx context.Context, tokens token.Tokens, invocation map[string]any) *Batch {
	serial, preload := e.readOptions(invocation)
	b := &Batch{
		ID:     uuid.Must(uuid.NewV7()).String(),
		Tokens: tokens,
		done:   reader.NewClaim(),
	}
	for _, tok := range tokens {
		tok.Meta().Set(MetaBatch, b.ID)
	}
	if preload {
		e.preload(ctx, tokens)
	}

	if !serial {
		go func() {
			_, err := e.run(ctx, b, modeParallel)
			b.done.Settle(err)
		}()
		return b
	}

	prev, release := e.queue.enqueue()
	go func() {
		select {
		case <-prev:
		case <-ctx.Done():
			// Hold the slot until the predecessor settles so later
			// batches still never overlap it.
			go func() {
				<-prev
				release()
			}()
			b.done.Settle(ctx.Err())
			return
		}
		pending, err := e.run(ctx, b, modeSerial)
		b.done.Settle(err)
		// A claim abandoned on cancel keeps the slot until its reader is
		// done with the token.
		if pending != nil {
			<-pending.Done()
		}
		release()
	}()
	return b
}

// run reads one batch. pending is the claim still being consumed when the
// batch failed without waiting for it, or nil.
func (e *Engine) run(ctx context.Context, b *Batch, mode string) (pending *reader.Claim, err error) {
	start := time.Now()
	log := logging.L().With("batch", b.ID, "mode", mode)
	log.Debug("pipeline: batch started", "tokens", len(b.Tokens))

	pending, err = e.readSerial(ctx, b.Tokens)

	e.metrics.BatchSettled(mode, err, time.Since(start))
	if err != nil {
		log.Debug("pipeline: batch failed", "err", err)
	} else {
		log.Debug("pipeline: batch finished", "took", time.Since(start))
	}
	return pending, err
}

// readSerial dispatches tokens strictly in order, one in flight at a time,
// between the before-read and after-read events. When ctx ends while a claim
// is outstanding, that claim is returned as pending.
func (e *Engine) readSerial(ctx context.Context, tokens token.Tokens) (*reader.Claim, error) {
	if err := e.bus.EmitParallel(ctx, events.Event{Name: events.BeforeRead, Tokens: tokens}); err != nil {
		return nil, err
	}
	for _, tok := range tokens {
		c, err := e.dispatchOne(ctx, tok)
		if err != nil {
			return nil, err
		}
		if err := c.Wait(ctx); err != nil {
			select {
			case <-c.Done():
				return nil, err
			default:
				return c, err
			}
		}
	}
	return nil, e.bus.EmitParallel(ctx, events.Event{Name: events.AfterRead, Tokens: tokens})
}
