package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"lector/internal/engine"
	"lector/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Pipeline    string
	MetricsPort int
	LogLevel    string
	LogJSON     bool
	Serial      bool
	Preload     bool

	registerer prometheus.Registerer
}

// NewRootCommand creates the root command for the lector CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(prometheus.DefaultRegisterer)
}

func newRootCommand(reg prometheus.Registerer) *cobra.Command {
	opts := &RootOptions{registerer: reg}

	cmd := &cobra.Command{
		Use:   "lector",
		Short: "lector - text to token pipelines",
		Long: `Transform text into typed tokens and hand each token to the first reader
that claims it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over LECTOR_LOG_* only when given.
			switch {
			case cmd.Flags().Changed("log-json"):
				logging.Configure(logging.Options{Level: opts.LogLevel, JSON: opts.LogJSON, Output: cmd.ErrOrStderr()})
			case cmd.Flags().Changed("log-level"):
				logging.SetLevel(opts.LogLevel)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.Pipeline, "pipeline", "p", "pipeline.yml", "pipeline file")
	cmd.PersistentFlags().IntVar(&opts.MetricsPort, "metrics-port", 0, "serve /metrics on this port (0 = off)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&opts.LogJSON, "log-json", false, "log as JSON")
	cmd.PersistentFlags().BoolVar(&opts.Serial, "serial", false, "read batches one after another")
	cmd.PersistentFlags().BoolVar(&opts.Preload, "preload", false, "run the preload pass")

	// Add subcommands
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewTransformCommand(opts))
	cmd.AddCommand(NewServeTransformerCommand(opts))

	return cmd
}

// engineConfig maps the global flags onto engine.Config. Flags only override
// the option tree when set.
func (o *RootOptions) engineConfig() engine.Config {
	overrides := map[string]any{}
	if o.Serial {
		overrides["read.serial"] = true
	}
	if o.Preload {
		overrides["read.preload"] = true
	}
	return engine.Config{
		PipelineYml: o.Pipeline,
		MetricsPort: o.MetricsPort,
		Registerer:  o.registerer,
		Overrides:   overrides,
	}
}
