package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lector/internal/spec"
)

const SupportedSchema = "v1"

// LoadPipelineSpec parses a pipeline YAML, validates schema_version, and
// returns the parsed spec and an absolute path to the options file (if set).
func LoadPipelineSpec(path string) (spec.File, string, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	if err := validate(cfg); err != nil {
		return cfg, "", err
	}
	optPath := cfg.Options
	if optPath != "" && !filepath.IsAbs(optPath) {
		optPath = filepath.Join(filepath.Dir(path), optPath)
	}
	return cfg, optPath, nil
}

func validate(f spec.File) error {
	for i, t := range f.Transformers {
		switch t.Type {
		case "", spec.InProc:
			if t.Kind == "" {
				return fmt.Errorf("transformers[%d]: kind is required for inproc", i)
			}
		case spec.GRPC:
			if t.Address == "" {
				return fmt.Errorf("transformers[%d]: address is required for grpc", i)
			}
		default:
			return fmt.Errorf("transformers[%d]: unknown type %q", i, t.Type)
		}
	}
	for i, r := range f.Readers {
		if r.Kind == "" {
			return fmt.Errorf("readers[%d]: kind is required", i)
		}
	}
	return nil
}
