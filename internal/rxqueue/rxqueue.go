// Package rxqueue is the bounded receive buffer shared by the drivers. It plays
// the role of the interrupt-fed RX ring on a microcontroller: a producer
// (reader goroutine or simulated ISR) pushes bytes, the consumer pops them
// without blocking, and bytes that arrive while the ring is full are dropped
// and remembered as an overflow.
package rxqueue

import (
	"errors"
	"io"
	"sync"
	"time"
)

// DefaultSize matches the receive buffer of the common software UARTs.
const DefaultSize = 64

// Queue is safe for one producer and one consumer running concurrently.
type Queue struct {
	mu       sync.Mutex
	buf      []byte
	head     int
	count    int
	overflow bool
	notify   chan struct{}
}

// New returns a queue holding at most size bytes. A size of 0 selects
// DefaultSize.
func New(size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &Queue{
		buf:    make([]byte, size),
		notify: make(chan struct{}, 1),
	}
}

// Cap returns the capacity in bytes.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Push appends p and returns how many bytes fit. The rest is dropped and the
// overflow flag is set.
func (q *Queue) Push(p ...byte) int {
	q.mu.Lock()
	n := 0
	for _, b := range p {
		if q.count == len(q.buf) {
			q.overflow = true
			break
		}
		q.buf[(q.head+q.count)%len(q.buf)] = b
		q.count++
		n++
	}
	q.mu.Unlock()

	if n > 0 {
		select {
		case q.notify <- struct{}{}:
		default:
		}
	}
	return n
}

// Pop removes and returns the oldest byte.
func (q *Queue) Pop() (byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return 0, false
	}
	b := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return b, true
}

// Peek returns the oldest byte without removing it.
func (q *Queue) Peek() (byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return 0, false
	}
	return q.buf[q.head], true
}

// Len returns the number of buffered bytes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Reset discards everything buffered. The overflow flag is kept.
func (q *Queue) Reset() {
	q.mu.Lock()
	q.head = 0
	q.count = 0
	q.mu.Unlock()
}

// Overflow reports whether bytes were dropped since the last call, and clears
// the flag.
func (q *Queue) Overflow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	o := q.overflow
	q.overflow = false
	return o
}

// Wait blocks until at least one byte is buffered or timeout elapses. It
// reports whether data is available.
func (q *Queue) Wait(timeout time.Duration) bool {
	if q.Len() > 0 {
		return true
	}
	if timeout <= 0 {
		return false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-q.notify:
			// the notify channel coalesces, so re-check
			if q.Len() > 0 {
				return true
			}
		case <-timer.C:
			return q.Len() > 0
		}
	}
}

// Fill copies from r into q until stop is closed, r returns io.EOF, or r
// fails. Only a real failure is returned.
func (q *Queue) Fill(r io.Reader, stop <-chan struct{}) error {
	chunk := make([]byte, 256)
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		n, err := r.Read(chunk)
		if n > 0 {
			q.Push(chunk[:n]...)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			select {
			case <-stop:
				return nil
			default:
				return err
			}
		}
	}
}
