package uart

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// device is an open tty as seen by the UART. Reads return what is buffered
// right now and never wait.
type device interface {
	io.Writer
	io.Closer
	read(p []byte) (int, error)
	pending() int
	wait(timeout time.Duration) bool
	discard() error
	drain() error
}

// openDevice is replaced in tests.
var openDevice = open

// UART is a hardware UART driver over a tty device. It is not safe for
// concurrent use, like the handle that wraps it.
type UART struct {
	path   string
	config Config
	baud   int
	dev    device

	// one byte of lookahead for PeekByte
	look   byte
	peeked bool
}

// New returns a closed UART for the device at path.
func New(path string, opts ...Option) (*UART, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}
	return &UART{path: path, config: config}, nil
}

// Path returns the device path.
func (u *UART) Path() string {
	return u.path
}

// Baud returns the rate of the current session, or 0 when closed.
func (u *UART) Baud() int {
	if u.dev == nil {
		return 0
	}
	return u.baud
}

// Config returns the framing used by the next Begin.
func (u *UART) Config() Config {
	return u.config
}

// Configure changes framing. It takes effect on the next Begin.
func (u *UART) Configure(opts ...Option) error {
	config := u.config
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return err
		}
	}
	u.config = config
	return nil
}

// IsOpen reports whether Begin has opened the device.
func (u *UART) IsOpen() bool {
	return u.dev != nil
}

// Begin opens the device at the given rate. Calling Begin on an open UART
// reopens it, the way re-beginning a microcontroller UART restarts it.
func (u *UART) Begin(baud int) error {
	if baud <= 0 {
		return ErrInvalidBaudRate
	}
	if u.dev != nil {
		if err := u.End(); err != nil {
			return err
		}
	}

	dev, err := openDevice(u.path, baud, u.config)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", u.path, err)
	}
	u.dev = dev
	u.baud = baud
	u.peeked = false
	return nil
}

// End closes the device. Ending a closed UART does nothing.
func (u *UART) End() error {
	if u.dev == nil {
		return nil
	}
	err := u.dev.Close()
	u.dev = nil
	u.peeked = false
	return err
}

// ReadByte returns the next buffered byte, or ErrNoData.
func (u *UART) ReadByte() (byte, error) {
	if u.dev == nil {
		return 0, ErrNotOpen
	}
	if u.peeked {
		u.peeked = false
		return u.look, nil
	}

	var one [1]byte
	n, err := u.dev.read(one[:])
	if n == 1 {
		return one[0], nil
	}
	if err != nil {
		return 0, err
	}
	return 0, ErrNoData
}

// PeekByte returns the next byte without consuming it.
func (u *UART) PeekByte() (byte, error) {
	if u.peeked {
		return u.look, nil
	}
	c, err := u.ReadByte()
	if err != nil {
		return 0, err
	}
	u.look = c
	u.peeked = true
	return c, nil
}

// Buffered returns how many bytes can be read without waiting.
func (u *UART) Buffered() int {
	if u.dev == nil {
		return 0
	}
	n := u.dev.pending()
	if u.peeked {
		n++
	}
	return n
}

func (u *UART) Write(p []byte) (int, error) {
	if u.dev == nil {
		return 0, ErrNotOpen
	}
	n, err := u.dev.Write(p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// FlushInput discards everything received but not yet read.
func (u *UART) FlushInput() error {
	if u.dev == nil {
		return ErrNotOpen
	}
	u.peeked = false
	return u.dev.discard()
}

// FlushOutput waits until all written bytes have left the transmitter.
func (u *UART) FlushOutput() error {
	if u.dev == nil {
		return ErrNotOpen
	}
	return u.dev.drain()
}

// ReadUntil stores bytes into buf until delim arrives, buf is full, or no byte
// arrives within the configured timeout. The delimiter is consumed but not
// stored.
func (u *UART) ReadUntil(delim byte, buf []byte) int {
	if u.dev == nil {
		return 0
	}

	n := 0
	deadline := time.Now().Add(u.config.Timeout)
	for n < len(buf) {
		c, err := u.ReadByte()
		if err != nil {
			if !errors.Is(err, ErrNoData) {
				break
			}
			remaining := time.Until(deadline)
			if remaining <= 0 || !u.dev.wait(remaining) {
				break
			}
			continue
		}
		if c == delim {
			break
		}
		buf[n] = c
		n++
		deadline = time.Now().Add(u.config.Timeout)
	}
	return n
}
