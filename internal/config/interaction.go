package config

import (
	"fmt"
	"time"
)

// InteractionConfig holds the page session timings
type InteractionConfig struct {
	AddToCartDelay        time.Duration `env:"ADD_TO_CART_DELAY" envDefault:"1s"`
	SuccessBannerDuration time.Duration `env:"SUCCESS_BANNER_DURATION" envDefault:"3s"`
	SessionIdleTimeout    time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
}

// LoadInteractionConfig loads interaction timings from environment variables
func LoadInteractionConfig(environ map[string]string) (InteractionConfig, error) {
	cfg, err := parse[InteractionConfig](environ)
	if err != nil {
		return cfg, err
	}

	if cfg.AddToCartDelay <= 0 {
		return cfg, fmt.Errorf("ADD_TO_CART_DELAY must be positive")
	}
	if cfg.SuccessBannerDuration <= 0 {
		return cfg, fmt.Errorf("SUCCESS_BANNER_DURATION must be positive")
	}
	if cfg.SessionIdleTimeout <= 0 {
		return cfg, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}

	return cfg, nil
}
