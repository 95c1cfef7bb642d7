package anyserial

import "go.uber.org/zap"

// Config holds the construction-time settings of a Port
type Config struct {
	Logger       *zap.Logger
	DebugSink    *Port
	DebugEnabled bool
}

// Option is a functional option for configuring a Port
type Option func(*Config) error

// DefaultConfig returns a configuration that logs nowhere and has the debug
// tee detached and disabled.
func DefaultConfig() Config {
	return Config{
		Logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used for lifecycle and tee diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return ErrInvalidConfig
		}
		c.Logger = logger
		return nil
	}
}

// WithDebugSink attaches a debug tee sink at construction
func WithDebugSink(sink *Port) Option {
	return func(c *Config) error {
		c.DebugSink = sink
		return nil
	}
}

// WithDebugEnabled sets the initial state of the debug tee
func WithDebugEnabled(enabled bool) Option {
	return func(c *Config) error {
		c.DebugEnabled = enabled
		return nil
	}
}
