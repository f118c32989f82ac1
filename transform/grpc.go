package transform

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"lector/internal/transport"
	"lector/token"
)

// GRPCClient runs a transformer hosted in another process behind
// lector.v1.TransformService.
type GRPCClient struct {
	name    string
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewGRPCClient prepares a connection to target; dialing is lazy. timeout
// bounds each Transform call when positive.
func NewGRPCClient(name, target string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	conn, err := transport.Dial(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("transform %s: dial %s: %w", name, target, err)
	}
	return &GRPCClient{name: name, conn: conn, timeout: timeout}, nil
}

func (c *GRPCClient) Name() string { return c.name }

func (c *GRPCClient) Transform(ctx context.Context, tokens token.Tokens, opts map[string]any) (token.Output, error) {
	req, err := transport.EncodeRequest(tokens, opts)
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, transport.TransformMethod, req, resp); err != nil {
		return nil, err
	}
	out, err := transport.DecodeResponse(resp)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Health reports whether the remote transform service is serving.
func (c *GRPCClient) Health(ctx context.Context) error {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: transport.ServiceName})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("transform %s: remote status %s", c.name, resp.GetStatus())
	}
	return nil
}

func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
