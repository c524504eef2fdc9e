package cli

import (
	"github.com/caarlos0/env/v11"
)

// Config holds environment-derived defaults for the CLI.
//
// These are read once at command construction so operators can pin the
// output format, log level, or a shared schedule cache without passing
// flags on every invocation. Explicit flags always win.
type Config struct {
	Format   string `env:"PULSENET_FORMAT" envDefault:"text"`
	LogLevel string `env:"PULSENET_LOG_LEVEL" envDefault:"warn"`
	Cache    string `env:"PULSENET_CACHE"`
}

// LoadConfigFromEnv loads CLI configuration and applies explicit
// defaults even when parsing fails, so the CLI always starts.
func LoadConfigFromEnv() Config {
	var cfg Config
	_ = env.Parse(&cfg)
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg
}
