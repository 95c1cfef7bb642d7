//go:build !linux

package uart

import (
	"errors"
	"io"
	"time"

	"github.com/allbin/anyserial/internal/rxqueue"
	"github.com/tarm/serial"
)

const rxBufferSize = 4096

// tarmPort wraps a tarm/serial port. tarm has no "bytes waiting" query, so a
// reader goroutine fills a queue that read and pending work from.
type tarmPort struct {
	port *serial.Port
	rx   *rxqueue.Queue
	stop chan struct{}
	done chan struct{}
}

func open(path string, baud int, config Config) (device, error) {
	c := &serial.Config{
		Name:        path,
		Baud:        baud,
		ReadTimeout: 50 * time.Millisecond,
		Size:        byte(config.DataBits),
		Parity:      tarmParity(config.Parity),
		StopBits:    serial.Stop1,
	}
	if config.StopBits == 2 {
		c.StopBits = serial.Stop2
	}

	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, err
	}

	t := &tarmPort{
		port: port,
		rx:   rxqueue.New(rxBufferSize),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		t.rx.Fill(timeoutReader{port}, t.stop)
	}()
	return t, nil
}

// timeoutReader hides the io.EOF a tty read returns when ReadTimeout expires
// with nothing received.
type timeoutReader struct {
	r io.Reader
}

func (t timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}

func tarmParity(p Parity) serial.Parity {
	switch p {
	case ParityOdd:
		return serial.ParityOdd
	case ParityEven:
		return serial.ParityEven
	default:
		return serial.ParityNone
	}
}

func (t *tarmPort) read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		c, ok := t.rx.Pop()
		if !ok {
			break
		}
		p[n] = c
		n++
	}
	return n, nil
}

func (t *tarmPort) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

func (t *tarmPort) pending() int {
	return t.rx.Len()
}

func (t *tarmPort) wait(timeout time.Duration) bool {
	return t.rx.Wait(timeout)
}

func (t *tarmPort) discard() error {
	t.rx.Reset()
	return t.port.Flush()
}

// tarm/serial cannot wait for the transmitter to empty; writes go straight to
// the OS driver.
func (t *tarmPort) drain() error {
	return nil
}

func (t *tarmPort) Close() error {
	close(t.stop)
	err := t.port.Close()
	<-t.done
	return err
}
