package softuart

import (
	"errors"
	"io"
	"net"
	"os"
)

// Wire runs e over a host byte stream, such as a tty or a socket. Bytes e
// transmits are written to rw, and a goroutine copies everything read from rw
// onto e's RX pin. The returned channel yields the error that stopped the
// copy, nil when rw was closed or reached EOF, and is then closed.
func Wire(e Endpoint, rw io.ReadWriter) <-chan error {
	e.SetTX(rw)
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := io.Copy(NewLine(e), rw)
		if isClosed(err) {
			err = nil
		}
		done <- err
	}()
	return done
}

func isClosed(err error) bool {
	return err == nil ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrClosed)
}
