package engine

import "github.com/prometheus/client_golang/prometheus"

type Config struct {
	PipelineYml string // required
	MetricsPort int    // 0 = metrics are recorded but not served

	// Registerer receives the engine's collectors. nil means the default
	// registry, which Expose also serves.
	Registerer prometheus.Registerer

	// Overrides are applied to the option tree after the options file and
	// env-vars, keyed by dotted path (e.g. "read.serial").
	Overrides map[string]any
}
