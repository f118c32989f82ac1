package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lector/internal/transport"
	"lector/reader"
	"lector/token"
	_ "lector/transform/builtin"
)

// captureReader records every token it claims, in claim order.
type captureReader struct {
	name string
	mu   sync.Mutex
	got  []string
}

func (c *captureReader) Name() string { return c.name }

func (c *captureReader) Read(_ context.Context, tok *token.Token, _ map[string]any) reader.Verdict {
	c.mu.Lock()
	c.got = append(c.got, fmt.Sprint(tok.Value))
	c.mu.Unlock()
	return reader.Accept(nil)
}

func (c *captureReader) values() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.got...)
}

var (
	capMu    sync.Mutex
	captured = map[string]*captureReader{}
)

func init() {
	reader.Register("capture", func(name string, _ map[string]any) (reader.Reader, error) {
		capMu.Lock()
		defer capMu.Unlock()
		c := &captureReader{name: name}
		captured[name] = c
		return c, nil
	})
}

func capturedBy(name string) *captureReader {
	capMu.Lock()
	defer capMu.Unlock()
	return captured[name]
}

func writePipeline(t *testing.T, body, options string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "pipeline.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	if options != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "options.yml"), []byte(options), 0o644))
	}
	return p
}

func TestBootstrap_RunInProc(t *testing.T) {
	path := writePipeline(t, `schema_version: v1
options: options.yml
transformers:
  - { name: split, type: inproc, kind: sentence }
readers:
  - { name: inproc-cap, kind: capture }
`, "read:\n  serial: true\n")

	reg := prometheus.NewRegistry()
	e, err := Bootstrap(context.Background(), Config{PipelineYml: path, Registerer: reg})
	require.NoError(t, err)
	defer e.Close()

	err = e.Run(context.Background(), strings.NewReader("One. Two.\n\nThree!\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"One.", "Two.", "Three!"}, capturedBy("inproc-cap").values())
	expected := `
# HELP lector_tokens_transformed_total Tokens produced by transform runs.
# TYPE lector_tokens_transformed_total counter
lector_tokens_transformed_total 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "lector_tokens_transformed_total"))
}

func TestBootstrap_RunRemoteTransformer(t *testing.T) {
	srv, err := transport.StartServer("127.0.0.1:0", func(_ context.Context, tokens token.Tokens, _ map[string]any) (token.Tokens, error) {
		out := make(token.Tokens, 0, len(tokens))
		for _, tok := range tokens {
			s, _ := tok.Text()
			out = append(out, tok.With(strings.ToUpper(s), nil))
		}
		return out, nil
	})
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	defer srv.Stop()

	path := writePipeline(t, fmt.Sprintf(`transformers:
  - { name: upper, type: grpc, address: %q, timeout_ms: 2000 }
readers:
  - { name: remote-cap, kind: capture }
`, srv.Addr().String()), "")

	e, err := Bootstrap(context.Background(), Config{PipelineYml: path, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Run(context.Background(), strings.NewReader("hello\n")))
	assert.Equal(t, []string{"HELLO"}, capturedBy("remote-cap").values())
}

func TestBootstrap_Overrides(t *testing.T) {
	path := writePipeline(t, "readers: [{ name: ov-cap, kind: capture }]\n", "")

	e, err := Bootstrap(context.Background(), Config{
		PipelineYml: path,
		Registerer:  prometheus.NewRegistry(),
		Overrides:   map[string]any{"readers.ov-cap.disable": true},
	})
	require.NoError(t, err)
	defer e.Close()

	err = e.Run(context.Background(), strings.NewReader("hi\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unexpected token "text:hi"`)
}

func TestBootstrap_UnknownKinds(t *testing.T) {
	path := writePipeline(t, "readers: [{ name: x, kind: nope }]\n", "")
	_, err := Bootstrap(context.Background(), Config{PipelineYml: path, Registerer: prometheus.NewRegistry()})
	assert.ErrorContains(t, err, `reader: unknown driver "nope"`)

	path = writePipeline(t, "transformers: [{ name: x, kind: nope }]\n", "")
	_, err = Bootstrap(context.Background(), Config{PipelineYml: path, Registerer: prometheus.NewRegistry()})
	assert.ErrorContains(t, err, `transform: unknown kind "nope"`)
}

func TestEngine_Transform(t *testing.T) {
	path := writePipeline(t, "transformers: [{ name: c, kind: chunk }]\n", "")
	e, err := Bootstrap(context.Background(), Config{PipelineYml: path, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer e.Close()

	tokens, err := e.Transform(context.Background(), "ab")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "text:a", tokens[0].String())
	require.NoError(t, e.Close())
}
