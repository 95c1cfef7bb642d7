// Package usbcdc is a USB serial driver for anyserial over a host's CDC-ACM
// (or USB-UART bridge) tty, using go.bug.st/serial.
//
// Begin opens the device and raises DTR, which is how a board's native USB
// serial learns that a terminal is attached. A background reader fills a
// bounded receive buffer so reads never block.
package usbcdc

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/allbin/anyserial/internal/rxqueue"
)

var (
	ErrDeviceNotFound = errors.New("usbcdc: device not found")
	ErrNoData         = errors.New("usbcdc: no data available")
	ErrNotOpen        = errors.New("usbcdc: port is not open")
	ErrInvalidConfig  = errors.New("usbcdc: invalid configuration")
)

// port is the part of serial.Port the driver uses.
type port interface {
	io.ReadWriteCloser
	SetDTR(dtr bool) error
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
	Drain() error
}

var openPort = func(path string, mode *serial.Mode) (port, error) {
	return serial.Open(path, mode)
}

// pollInterval bounds how long the reader blocks, and so how long End waits
// for it.
const pollInterval = 50 * time.Millisecond

type Config struct {
	BufferSize int
	Timeout    time.Duration // per-byte wait in ReadUntil
}

type Option func(*Config) error

func DefaultConfig() Config {
	return Config{BufferSize: 4096, Timeout: time.Second}
}

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

// WithTimeout sets how long ReadUntil waits for each byte.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.Timeout = d
		return nil
	}
}

// USB is a USB serial endpoint on the host.
type USB struct {
	path   string
	config Config

	p    port
	rx   *rxqueue.Queue
	stop chan struct{}
	done chan struct{}

	mu  sync.Mutex
	err error
}

// New returns a closed endpoint for the device at path.
func New(path string, opts ...Option) (*USB, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}
	return &USB{path: path, config: config, rx: rxqueue.New(config.BufferSize)}, nil
}

// Path returns the device path the endpoint opens.
func (u *USB) Path() string {
	return u.path
}

// Begin opens the device and asserts DTR. The rate only matters for USB-UART
// bridges; CDC-ACM devices ignore it.
func (u *USB) Begin(baud int) error {
	if u.p != nil {
		if err := u.End(); err != nil {
			return err
		}
	}

	p, err := openPort(u.path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", u.path, err)
	}
	if err := p.SetReadTimeout(pollInterval); err != nil {
		p.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}
	if err := p.SetDTR(true); err != nil {
		p.Close()
		return fmt.Errorf("failed to set DTR: %w", err)
	}

	u.p = p
	u.setErr(nil)
	u.rx.Reset()
	u.stop = make(chan struct{})
	u.done = make(chan struct{})
	go func(stop, done chan struct{}) {
		defer close(done)
		if err := u.rx.Fill(p, stop); err != nil {
			u.setErr(err)
		}
	}(u.stop, u.done)
	return nil
}

// End drops DTR and closes the device.
func (u *USB) End() error {
	if u.p == nil {
		return nil
	}
	close(u.stop)
	u.p.SetDTR(false)
	err := u.p.Close()
	<-u.done
	u.p = nil
	return err
}

// DTR reports whether the endpoint is open with DTR asserted.
func (u *USB) DTR() bool {
	return u.p != nil
}

// Err returns the error that stopped the reader during the current session,
// or nil while it is still receiving. A read failing because End closed the
// device is not reported.
func (u *USB) Err() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err
}

func (u *USB) setErr(err error) {
	u.mu.Lock()
	u.err = err
	u.mu.Unlock()
}

// Overflow reports and clears whether received bytes were dropped on a full
// buffer.
func (u *USB) Overflow() bool {
	return u.rx.Overflow()
}

func (u *USB) ReadByte() (byte, error) {
	b, ok := u.rx.Pop()
	if !ok {
		return 0, ErrNoData
	}
	return b, nil
}

func (u *USB) PeekByte() (byte, error) {
	b, ok := u.rx.Peek()
	if !ok {
		return 0, ErrNoData
	}
	return b, nil
}

func (u *USB) Buffered() int {
	return u.rx.Len()
}

func (u *USB) Write(p []byte) (int, error) {
	if u.p == nil {
		return 0, ErrNotOpen
	}
	return u.p.Write(p)
}

// FlushInput discards buffered input on both sides of the reader.
func (u *USB) FlushInput() error {
	u.rx.Reset()
	if u.p == nil {
		return nil
	}
	return u.p.ResetInputBuffer()
}

// FlushOutput waits until written bytes have been sent.
func (u *USB) FlushOutput() error {
	if u.p == nil {
		return ErrNotOpen
	}
	return u.p.Drain()
}

// ReadUntil stores bytes into buf until delim arrives, buf is full, or no byte
// arrives within the configured timeout.
func (u *USB) ReadUntil(delim byte, buf []byte) int {
	n := 0
	for n < len(buf) {
		b, ok := u.rx.Pop()
		if !ok {
			if u.p == nil || !u.rx.Wait(u.config.Timeout) {
				break
			}
			continue
		}
		if b == delim {
			break
		}
		buf[n] = b
		n++
	}
	return n
}
