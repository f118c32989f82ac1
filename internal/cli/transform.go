package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lector/internal/engine"
)

// NewTransformCommand creates the transform command.
func NewTransformCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transform <text>",
		Short: "Print the tokens text transforms into",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.Bootstrap(cmd.Context(), opts.engineConfig())
			if err != nil {
				return err
			}
			defer e.Close()

			tokens, err := e.Transform(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			for _, tok := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			return nil
		},
	}
}
