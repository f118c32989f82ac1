package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lector/internal/spec"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadPipelineSpec_ResolvesRelativeOptionsAndSchema(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "pipeline.yml", `schema_version: v1
options: options.yml
transformers:
  - { name: split, type: inproc, kind: sentence, config: { max_runes: 80 } }
  - { name: upper, type: grpc, address: "localhost:50051", timeout_ms: 500 }
readers:
  - { name: console, kind: stdout, config: { delay_ms: 10 } }
`)

	cfg, abs, err := LoadPipelineSpec(path)
	require.NoError(t, err)
	assert.Equal(t, SupportedSchema, cfg.SchemaVersion)
	assert.Equal(t, filepath.Join(dir, "options.yml"), abs)

	require.Len(t, cfg.Transformers, 2)
	assert.Equal(t, spec.TransformerSpec{Name: "split", Type: spec.InProc, Kind: "sentence", Config: map[string]any{"max_runes": 80}}, cfg.Transformers[0])
	assert.Equal(t, spec.GRPC, cfg.Transformers[1].Type)
	assert.Equal(t, 500, cfg.Transformers[1].TimeoutMS)

	require.Len(t, cfg.Readers, 1)
	assert.Equal(t, "stdout", cfg.Readers[0].Kind)
	assert.Equal(t, map[string]any{"delay_ms": 10}, cfg.Readers[0].Config)
}

func TestLoadPipelineSpec_DefaultsSchema(t *testing.T) {
	path := write(t, t.TempDir(), "pipeline.yml", "readers: [{ kind: stdout }]\n")

	cfg, abs, err := LoadPipelineSpec(path)
	require.NoError(t, err)
	assert.Equal(t, SupportedSchema, cfg.SchemaVersion)
	assert.Empty(t, abs)
}

func TestLoadPipelineSpec_Invalid(t *testing.T) {
	cases := map[string]string{
		"schema":       "schema_version: v999\n",
		"inproc kind":  "transformers: [{ name: x, type: inproc }]\n",
		"grpc address": "transformers: [{ name: x, type: grpc }]\n",
		"type":         "transformers: [{ name: x, type: stdio, kind: chunk }]\n",
		"reader kind":  "readers: [{ name: x }]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := LoadPipelineSpec(write(t, t.TempDir(), "pipeline.yml", body))
			assert.Error(t, err)
		})
	}
}
