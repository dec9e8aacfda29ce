package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parse fills a tagged config struct from environ, or from the process
// environment when environ is nil.
func parse[T any](environ map[string]string) (T, error) {
	var cfg T
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("failed to parse %T: %w", cfg, err)
	}
	return cfg, nil
}
