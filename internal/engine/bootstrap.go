package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"lector/internal/config"
	"lector/internal/logging"
	"lector/internal/spec"
	"lector/internal/telemetry"
	"lector/pipeline"
	"lector/reader"
	"lector/transform"
)

// Bootstrap loads the pipeline file, builds every plugin it names and returns
// an engine ready to Run. Drivers must already be registered.
func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	// 1. pipeline file + option tree
	file, optPath, err := config.LoadPipelineSpec(cfg.PipelineYml)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	tree, err := config.LoadOptions(optPath)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	e := &Engine{}

	// 2. plugins
	transformers, err := buildTransformers(file.Transformers, e)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	readers, err := buildReaders(file.Readers, e)
	if err != nil {
		_ = e.Close()
		return nil, err
	}

	// 3. metrics
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	metrics := telemetry.NewMetrics(reg)
	if cfg.MetricsPort > 0 {
		g, _ := reg.(prometheus.Gatherer)
		e.metrics = telemetry.Expose(cfg.MetricsPort, g)
	}

	// 4. engine
	e.pipe, err = pipeline.New(readers, transformers, tree, pipeline.WithMetrics(metrics))
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	for path, v := range cfg.Overrides {
		if err := e.pipe.SetOption(path, v); err != nil {
			_ = e.Close()
			return nil, err
		}
	}
	logging.L().Info("engine: ready",
		"transformers", len(transformers), "readers", len(readers), "options", optPath)
	return e, nil
}

func buildTransformers(specs []spec.TransformerSpec, e *Engine) ([]transform.Transformer, error) {
	out := make([]transform.Transformer, 0, len(specs))
	for i, s := range specs {
		var (
			t   transform.Transformer
			err error
		)
		switch s.Type {
		case spec.GRPC:
			var c *transform.GRPCClient
			c, err = transform.NewGRPCClient(s.Name, s.Address, time.Duration(s.TimeoutMS)*time.Millisecond)
			if err == nil {
				e.closers = append(e.closers, c)
				t = c
			}
		default:
			t, err = transform.New(s.Kind, s.Name, s.Config)
		}
		if err != nil {
			return nil, fmt.Errorf("transformers[%d] %q: %w", i, s.Name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func buildReaders(specs []spec.ReaderSpec, e *Engine) ([]reader.Reader, error) {
	out := make([]reader.Reader, 0, len(specs))
	for i, s := range specs {
		r, err := reader.New(s.Kind, s.Name, s.Config)
		if err != nil {
			return nil, fmt.Errorf("readers[%d] %q: %w", i, s.Name, err)
		}
		if c, ok := r.(io.Closer); ok {
			e.closers = append(e.closers, c)
		}
		out = append(out, r)
	}
	return out, nil
}

