package softuart

import "time"

// Receive buffer sizes of the microcontroller libraries being emulated
const (
	SoftwareBufferSize = 64
	AltBufferSize      = 80
)

type Config struct {
	BufferSize int
	Timeout    time.Duration // per-byte wait in ReadUntil
}

type Option func(*Config) error

// WithBufferSize sets the receive buffer size in bytes.
func WithBufferSize(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return ErrInvalidConfig
		}
		c.BufferSize = n
		return nil
	}
}

// WithTimeout sets how long ReadUntil waits for each byte. Zero makes it
// return as soon as the buffer runs dry.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.Timeout = d
		return nil
	}
}

func buildConfig(size int, opts []Option) (Config, error) {
	config := Config{BufferSize: size, Timeout: time.Second}
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}
