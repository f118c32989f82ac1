package cli

import (
	"context"

	"github.com/spf13/cobra"

	"lector/internal/logging"
	"lector/internal/transport"
	"lector/token"
	"lector/transform"
)

// ServeOptions holds flags for the serve-transformer command.
type ServeOptions struct {
	*RootOptions
	Listen string
	Kind   string
}

// NewServeTransformerCommand creates the serve-transformer command.
func NewServeTransformerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve-transformer",
		Short: "Serve a builtin transformer over gRPC",
		Long: `Serve one builtin transformer as lector.v1.TransformService so another
pipeline can use it with type: grpc.

Example:
  lector serve-transformer --listen :50052 --kind sentence`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := transform.New(opts.Kind, opts.Kind, nil)
			if err != nil {
				return err
			}
			srv, err := transport.StartServer(opts.Listen, serveFunc(t))
			if err != nil {
				return err
			}
			go func() {
				<-cmd.Context().Done()
				srv.Stop()
			}()
			logging.L().Info("transformer listening", "kind", opts.Kind, "addr", srv.Addr().String())
			return srv.Serve()
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", ":50052", "address to listen on")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "builtin transformer kind (required)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func serveFunc(t transform.Transformer) transport.TransformFunc {
	return func(ctx context.Context, tokens token.Tokens, opts map[string]any) (token.Tokens, error) {
		out, err := t.Transform(ctx, tokens, opts)
		if err != nil {
			return nil, err
		}
		return token.Flatten(out), nil
	}
}
