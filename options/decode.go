package options

import (
	"github.com/knadh/koanf/v2"
)

// Decode unmarshals a plugin config mapping into out using `koanf` struct
// tags. Scalars are converted weakly, so "250" fills an int field and
// "1s" fills a time.Duration.
func Decode(cfg map[string]any, out any) error {
	k := koanf.New(Delim)
	for key, v := range cfg {
		if err := k.Set(key, v); err != nil {
			return err
		}
	}
	return k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "koanf"})
}
