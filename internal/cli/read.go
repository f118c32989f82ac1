package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lector/internal/engine"
)

// NewReadCommand creates the read command.
func NewReadCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read [text...]",
		Short: "Transform and read text",
		Long: `Transform text through the pipeline's transformers and dispatch every
resulting token to its readers.

Each argument is read as its own batch. Without arguments every line of
stdin is.

Example:
  lector read --pipeline pipeline.yml "Hello there. How are you?"
  cat book.txt | lector read --serial`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.Bootstrap(cmd.Context(), opts.engineConfig())
			if err != nil {
				return err
			}
			defer e.Close()

			var in io.Reader = cmd.InOrStdin()
			if len(args) > 0 {
				in = strings.NewReader(strings.Join(args, "\n"))
			}
			return e.Run(cmd.Context(), in)
		},
	}
}
