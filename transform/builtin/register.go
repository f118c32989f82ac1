package builtin

import (
	"lector/options"
	"lector/transform"
)

func init() {
	transform.Register("sentence", func(name string, cfg map[string]any) (transform.Transformer, error) {
		var c SentenceConfig
		if err := options.Decode(cfg, &c); err != nil {
			return nil, err
		}
		return Sentence(name, c), nil
	})
	transform.Register("chunk", func(name string, _ map[string]any) (transform.Transformer, error) {
		return Chunk(name), nil
	})
	transform.Register("normalize", func(name string, cfg map[string]any) (transform.Transformer, error) {
		var c NormalizeConfig
		if err := options.Decode(cfg, &c); err != nil {
			return nil, err
		}
		return Normalize(name, c)
	})
}
