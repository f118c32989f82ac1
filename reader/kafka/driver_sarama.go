// Package kafka is a reader that claims tokens by producing them to a Kafka
// topic. A claim settles once the broker acknowledges the record.
package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"lector/internal/logging"
	"lector/reader"
	"lector/token"
)

// metaBatch is the metadata key the engine stamps batch IDs under.
const metaBatch = "batch"

type Reader struct {
	name string
	cfg  Config
	p    sarama.AsyncProducer
	bp   *Controller

	mu     sync.RWMutex // guards closed against sends on p.Input()
	closed bool
	drain  sync.WaitGroup
}

// New dials the brokers and returns a reader producing to cfg.Topic.
func New(name string, cfg Config) (*Reader, error) {
	sc, err := cfg.saramaConfig()
	if err != nil {
		return nil, err
	}
	p, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, err
	}
	return NewWithProducer(name, cfg, p), nil
}

// NewWithProducer wraps an existing producer. The producer must return
// successes.
func NewWithProducer(name string, cfg Config, p sarama.AsyncProducer) *Reader {
	applyDefaults(&cfg)
	r := &Reader{name: name, cfg: cfg, p: p, bp: NewController(cfg.MaxInFlight)}
	r.drain.Add(1)
	go r.settle()
	return r
}

func (r *Reader) Name() string { return r.name }

// Read claims every token. opts may carry "topic" to override the
// configured one for this call.
func (r *Reader) Read(ctx context.Context, tok *token.Token, opts map[string]any) reader.Verdict {
	batch, _ := tok.Meta().Value(metaBatch).(string)
	val, err := encode(tok, batch)
	if err != nil {
		return reader.Accept(reader.Settled(fmt.Errorf("kafka-reader: encode %s: %w", tok, err)))
	}
	topic := r.cfg.Topic
	if t, ok := opts["topic"].(string); ok && t != "" {
		topic = t
	}

	claim := reader.NewClaim()
	msg := &sarama.ProducerMessage{
		Topic:    topic,
		Value:    sarama.ByteEncoder(val),
		Metadata: claim,
	}
	if batch != "" {
		msg.Key = sarama.StringEncoder(batch)
	}

	go func() {
		if err := r.bp.Acquire(ctx); err != nil {
			claim.Settle(err)
			return
		}
		r.mu.RLock()
		defer r.mu.RUnlock()
		if r.closed {
			r.bp.Release(1)
			claim.Settle(errLimiterClosed)
			return
		}
		r.p.Input() <- msg
	}()
	return reader.Accept(claim)
}

// settle drains the producer's result channels until both are closed.
func (r *Reader) settle() {
	defer r.drain.Done()
	successes, errs := r.p.Successes(), r.p.Errors()
	for successes != nil || errs != nil {
		select {
		case msg, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			r.finish(msg, nil)
		case perr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logging.For("kafka-reader").Warn("produce failed", "reader", r.name, "topic", perr.Msg.Topic, "err", perr.Err)
			r.finish(perr.Msg, perr.Err)
		}
	}
}

func (r *Reader) finish(msg *sarama.ProducerMessage, err error) {
	r.bp.Release(1)
	if c, ok := msg.Metadata.(*reader.Claim); ok {
		c.Settle(err)
	}
}

// Close flushes buffered records, settles their claims and shuts the
// producer down. It is idempotent.
func (r *Reader) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.bp.Close()
	r.p.AsyncClose()
	r.drain.Wait()
	return nil
}

/* ────────── auto-register ────────── */
func init() {
	reader.Register("kafka", func(name string, raw map[string]any) (reader.Reader, error) {
		cfg, err := ParseConfig(raw)
		if err != nil {
			return nil, err
		}
		return New(name, cfg)
	})
}
