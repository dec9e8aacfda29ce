package config

import "fmt"

// Log output formats
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadLogConfig loads logger configuration from environment variables
func LoadLogConfig(environ map[string]string) (LogConfig, error) {
	cfg, err := parse[LogConfig](environ)
	if err != nil {
		return cfg, err
	}

	if cfg.Format != LogFormatJSON && cfg.Format != LogFormatConsole {
		return cfg, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, cfg.Format)
	}

	return cfg, nil
}
