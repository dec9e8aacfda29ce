package interaction

import (
	"time"

	"go.uber.org/zap"
)

// Default delays of the simulated add-to-cart request
const (
	DefaultSubmitDelay     = 1000 * time.Millisecond
	DefaultSuccessDuration = 3000 * time.Millisecond
)

// Option configures a Machine
type Option func(*options)

type options struct {
	clock           Clock
	submitDelay     time.Duration
	successDuration time.Duration
	logger          *zap.Logger
	defaultSize     string
}

func defaultOptions() options {
	return options{
		clock:           RealClock{},
		submitDelay:     DefaultSubmitDelay,
		successDuration: DefaultSuccessDuration,
		logger:          zap.NewNop(),
	}
}

// WithClock replaces the runtime clock, typically with a ManualClock in tests
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithTimings sets how long a submission takes and how long the success
// confirmation stays up. Non-positive values keep the defaults.
func WithTimings(submitDelay, successDuration time.Duration) Option {
	return func(o *options) {
		if submitDelay > 0 {
			o.submitDelay = submitDelay
		}
		if successDuration > 0 {
			o.successDuration = successDuration
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaultSize preselects a size by name instead of the second list entry
func WithDefaultSize(name string) Option {
	return func(o *options) {
		o.defaultSize = name
	}
}
