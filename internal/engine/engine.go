package engine

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"lector/internal/logging"
	"lector/pipeline"
	"lector/token"
)

type Engine struct {
	pipe    *pipeline.Engine
	closers []io.Closer
	metrics *http.Server
}

// Pipeline exposes the underlying engine for direct use.
func (e *Engine) Pipeline() *pipeline.Engine { return e.pipe }

// Run submits every non-blank line of in as its own batch and waits for all
// of them. It returns the first batch error in submission order.
func (e *Engine) Run(ctx context.Context, in io.Reader) error {
	var batches []*pipeline.Batch
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		batches = append(batches, e.pipe.SubmitText(ctx, line, nil))
	}
	scanErr := sc.Err()

	var first error
	for _, b := range batches {
		if _, err := b.Wait(ctx); err != nil {
			logging.For("engine").Warn("batch failed", "batch", b.ID, "err", err)
			if first == nil {
				first = err
			}
		}
	}
	if first != nil {
		return first
	}
	return scanErr
}

// Transform runs only the transform stage.
func (e *Engine) Transform(ctx context.Context, text string) (token.Tokens, error) {
	return e.pipe.Transform(ctx, text, nil)
}

// Close releases every plugin that holds resources and stops the metrics
// server. It is safe to call more than once.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	e.closers = nil
	if e.metrics != nil {
		errs = append(errs, e.metrics.Close())
		e.metrics = nil
	}
	return errors.Join(errs...)
}
