// Package console is a USB serial driver over an io.Reader and io.Writer,
// usually a process's stdin and stdout. It stands in for a board's USB CDC
// console when the program runs on a host: the host side is always present
// once begun, and the line rate is ignored.
package console

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/allbin/anyserial/internal/rxqueue"
)

var ErrNoData = errors.New("console: no data available")

// Console is safe for one reader goroutine (its own) and one caller.
type Console struct {
	r io.Reader
	w io.Writer

	rx   *rxqueue.Queue
	once sync.Once
	dtr  atomic.Bool
	err  atomic.Value
}

// New returns a console reading from r and writing to w. Either may be nil:
// a nil reader never receives, a nil writer discards.
func New(r io.Reader, w io.Writer) *Console {
	return &Console{
		r:  r,
		w:  w,
		rx: rxqueue.New(4096),
	}
}

// Stdio returns a console on os.Stdin and os.Stdout.
func Stdio() *Console {
	return New(os.Stdin, os.Stdout)
}

// Begin starts receiving. The rate is ignored. The reader goroutine is started
// once and keeps running across End and Begin, since a blocked read cannot be
// interrupted.
func (c *Console) Begin(int) error {
	if c.r != nil {
		c.once.Do(func() {
			go func() {
				if err := c.rx.Fill(c.r, nil); err != nil {
					c.err.Store(err)
				}
			}()
		})
	}
	c.dtr.Store(true)
	return nil
}

// End drops the host connection. Buffered input stays readable.
func (c *Console) End() error {
	c.dtr.Store(false)
	return nil
}

// DTR reports whether the console is begun.
func (c *Console) DTR() bool {
	return c.dtr.Load()
}

// Err returns the error that stopped the reader, if any.
func (c *Console) Err() error {
	if err, ok := c.err.Load().(error); ok {
		return err
	}
	return nil
}

func (c *Console) ReadByte() (byte, error) {
	b, ok := c.rx.Pop()
	if !ok {
		return 0, ErrNoData
	}
	return b, nil
}

func (c *Console) PeekByte() (byte, error) {
	b, ok := c.rx.Peek()
	if !ok {
		return 0, ErrNoData
	}
	return b, nil
}

func (c *Console) Buffered() int {
	return c.rx.Len()
}

func (c *Console) Write(p []byte) (int, error) {
	if c.w == nil {
		return len(p), nil
	}
	return c.w.Write(p)
}
