package config

import (
	"fmt"
	"time"

	"github.com/andyle182810/netkit/logutil"
	"github.com/andyle182810/netkit/validator"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

const envPrefix = "NETKIT_"

type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"  validate:"oneof=trace debug info warn error fatal panic"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
	Debug     bool   `env:"DEBUG"      envDefault:"false"`

	// Transport
	Transport       string        `env:"TRANSPORT"         envDefault:"http" validate:"oneof=http resty"`
	Timeout         time.Duration `env:"TIMEOUT"           envDefault:"30s"  validate:"gt=0"`
	MaxResponseSize int64         `env:"MAX_RESPONSE_SIZE" envDefault:"0"    validate:"gte=0"`

	// Decoding
	StrictDecoding bool `env:"STRICT_DECODING" envDefault:"false"`

	Concurrency int `env:"CONCURRENCY" envDefault:"4" validate:"min=1"`
}

// New reads NETKIT_* variables from the process environment.
func New() (*Config, error) {
	return NewFromEnvironment(nil)
}

// NewFromEnvironment reads NETKIT_* variables from environ, or from the
// process environment when environ is nil.
func NewFromEnvironment(environ map[string]string) (*Config, error) {
	var cfg Config

	opts := env.Options{ //nolint:exhaustruct
		Prefix:      envPrefix,
		Environment: environ,
	}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// EffectiveLogLevel is LogLevel, raised to trace when Debug is set so the
// per-call records of the service are emitted.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug && logutil.ParseZerologLevel(c.LogLevel) > zerolog.TraceLevel {
		return zerolog.TraceLevel.String()
	}

	return c.LogLevel
}
