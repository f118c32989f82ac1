package kafka

import (
	"errors"

	"github.com/IBM/sarama"

	"lector/options"
)

type Config struct {
	Brokers     []string `koanf:"brokers"`
	Topic       string   `koanf:"topic"`
	Acks        int16    `koanf:"required_acks"` // 1,-1; unset means 1
	Version     string   `koanf:"version"`
	TLSEn       bool     `koanf:"tls_enabled"`
	SASLUser    string   `koanf:"sasl_user"`
	SASLPass    string   `koanf:"sasl_pass"`
	MaxInFlight int64    `koanf:"max_in_flight"` // unsettled produces
}

// ParseConfig decodes a reader config mapping and applies defaults.
func ParseConfig(raw map[string]any) (Config, error) {
	var cfg Config
	if err := options.Decode(raw, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if cfg.Topic == "" {
		return cfg, errors.New("kafka-reader: topic is required")
	}
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = 1024
	}
	if c.Acks == 0 {
		c.Acks = int16(sarama.WaitForLocal)
	}
}

// saramaConfig builds the producer config. Successes are always returned
// because claims settle on them.
func (c Config) saramaConfig() (*sarama.Config, error) {
	sc := sarama.NewConfig()
	if c.Version != "" {
		ver, err := sarama.ParseKafkaVersion(c.Version)
		if err != nil {
			return nil, err
		}
		sc.Version = ver
	}
	sc.Producer.RequiredAcks = sarama.RequiredAcks(c.Acks)
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	if c.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if c.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = c.SASLUser, c.SASLPass
	}
	return sc, nil
}
