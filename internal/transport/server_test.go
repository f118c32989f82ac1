package transport

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"lector/token"
)

func upper(_ context.Context, tokens token.Tokens, opts map[string]any) (token.Tokens, error) {
	out := make(token.Tokens, 0, len(tokens))
	for _, t := range tokens {
		s, _ := t.Text()
		if suffix, ok := opts["suffix"].(string); ok {
			s += suffix
		}
		out = append(out, t.With(strings.ToUpper(s), nil))
	}
	return out, nil
}

func startBufconn(t *testing.T, fn TransformFunc) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(lis, fn)
	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Stop)

	conn, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_TransformRoundTrip(t *testing.T) {
	conn := startBufconn(t, upper)

	req, err := EncodeRequest(token.Tokens{
		token.New(token.TypeText, "hi", map[string]any{"volume": 1}, nil),
	}, map[string]any{"suffix": "!"})
	require.NoError(t, err)

	resp := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), TransformMethod, req, resp))

	out, err := DecodeResponse(resp)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "text", out[0].Type)
	assert.Equal(t, "HI!", out[0].Value)
	assert.Equal(t, float64(1), out[0].Options["volume"])
}

func TestCodec_RejectsMalformed(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"tokens": "nope"})
	require.NoError(t, err)
	_, err = DecodeResponse(s)
	assert.Error(t, err)

	s, err = structpb.NewStruct(map[string]any{"tokens": []any{map[string]any{"value": "x"}}})
	require.NoError(t, err)
	_, err = DecodeResponse(s)
	assert.ErrorContains(t, err, "missing type")

	_, err = EncodeRequest(token.Tokens{token.New("chan", make(chan int), nil, nil)}, nil)
	assert.Error(t, err)
}

func TestCodec_EmptyResponse(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{})
	require.NoError(t, err)
	out, err := DecodeResponse(s)
	require.NoError(t, err)
	assert.Empty(t, out)
}
