package uart

import "time"

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "none"
	}
}

// WriteMode represents the write synchronization mode
type WriteMode int

const (
	WriteModeBuffered WriteMode = iota // Default: kernel buffers writes
	WriteModeSynced                    // O_SYNC: writes block until hardware transmission
)

// Config holds the framing and timing used when the UART is begun. The baud
// rate is not part of it; it is passed to Begin.
type Config struct {
	DataBits  int
	StopBits  int
	Parity    Parity
	Timeout   time.Duration // per-byte wait in ReadUntil
	WriteMode WriteMode
}

// Option is a functional option for configuring a UART
type Option func(*Config) error

// DefaultConfig returns 8N1 with a one second ReadUntil timeout
func DefaultConfig() Config {
	return Config{
		DataBits:  8,
		StopBits:  1,
		Parity:    ParityNone,
		Timeout:   time.Second,
		WriteMode: WriteModeBuffered,
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if parity < ParityNone || parity > ParityEven {
			return ErrInvalidConfig
		}
		c.Parity = parity
		return nil
	}
}

// WithTimeout sets how long ReadUntil waits for each byte
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 {
			return ErrInvalidConfig
		}
		c.Timeout = timeout
		return nil
	}
}

// WithSyncWrite enables synchronous writes (O_SYNC) where the platform has them
func WithSyncWrite() Option {
	return func(c *Config) error {
		c.WriteMode = WriteModeSynced
		return nil
	}
}
