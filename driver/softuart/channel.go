package softuart

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/allbin/anyserial/internal/rxqueue"
)

// channel is the receive buffer and transmit line common to both instance
// kinds.
type channel struct {
	config Config
	rx     *rxqueue.Queue
	begun  atomic.Bool
	baud   atomic.Int64

	txMu sync.Mutex
	tx   io.Writer
}

func (c *channel) setup(config Config, tx io.Writer) {
	c.config = config
	c.rx = rxqueue.New(config.BufferSize)
	c.tx = tx
}

// SetTX replaces the writer transmitted bytes go to. A nil writer discards
// them.
func (c *channel) SetTX(w io.Writer) {
	c.txMu.Lock()
	c.tx = w
	c.txMu.Unlock()
}

// Baud returns the rate given to Begin, or 0 before Begin.
func (c *channel) Baud() int {
	return int(c.baud.Load())
}

func (c *channel) begin(baud int) error {
	if baud <= 0 {
		return ErrInvalidBaudRate
	}
	c.baud.Store(int64(baud))
	c.begun.Store(true)
	return nil
}

func (c *channel) transmit(p []byte) (int, error) {
	if !c.begun.Load() {
		return 0, ErrNotBegun
	}
	c.txMu.Lock()
	defer c.txMu.Unlock()
	if c.tx == nil {
		return len(p), nil
	}
	return c.tx.Write(p)
}

func (c *channel) pop() (byte, error) {
	b, ok := c.rx.Pop()
	if !ok {
		return 0, ErrNoData
	}
	return b, nil
}

func (c *channel) peek() (byte, error) {
	b, ok := c.rx.Peek()
	if !ok {
		return 0, ErrNoData
	}
	return b, nil
}

// readUntil consumes bytes up to and including delim, storing all but the
// delimiter, and waits up to the configured timeout for each byte.
func (c *channel) readUntil(delim byte, buf []byte) int {
	n := 0
	for n < len(buf) {
		b, ok := c.rx.Pop()
		if !ok {
			if !c.rx.Wait(c.config.Timeout) {
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

// drainTX waits for the transmit line when it buffers.
func (c *channel) drainTX() error {
	c.txMu.Lock()
	defer c.txMu.Unlock()
	if f, ok := c.tx.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
