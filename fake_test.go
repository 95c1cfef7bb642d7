package anyserial

import "errors"

var errEmpty = errors.New("empty")

// fakeDriver is an in-memory driver. Bytes written go to tx; bytes in rx are
// what the port reads. accept limits how many bytes one Write takes (negative
// means all).
type fakeDriver struct {
	rx     []byte
	tx     []byte
	accept int
	wrErr  error

	begun  []int
	ends   int
	dtr    bool
	listen bool
	over   bool
}

func newFake(rx string) *fakeDriver {
	return &fakeDriver{rx: []byte(rx), accept: -1}
}

func (f *fakeDriver) Begin(baud int) error {
	f.begun = append(f.begun, baud)
	return nil
}

func (f *fakeDriver) End() error {
	f.ends++
	return nil
}

func (f *fakeDriver) ReadByte() (byte, error) {
	if len(f.rx) == 0 {
		return 0, errEmpty
	}
	c := f.rx[0]
	f.rx = f.rx[1:]
	return c, nil
}

func (f *fakeDriver) PeekByte() (byte, error) {
	if len(f.rx) == 0 {
		return 0, errEmpty
	}
	return f.rx[0], nil
}

func (f *fakeDriver) Buffered() int { return len(f.rx) }

func (f *fakeDriver) Write(p []byte) (int, error) {
	n := len(p)
	if f.accept >= 0 && f.accept < n {
		n = f.accept
	}
	f.tx = append(f.tx, p[:n]...)
	return n, f.wrErr
}

// softFake adds the software UART queries.
type softFake struct {
	*fakeDriver
}

func (s softFake) Listen() bool {
	was := s.listen
	s.listen = true
	return !was
}

func (s softFake) IsListening() bool { return s.listen }

func (s softFake) Overflow() bool {
	o := s.over
	s.over = false
	return o
}

// altFake is an alt software UART with input and output flushing.
type altFake struct {
	*fakeDriver
	flushedIn  int
	flushedOut int
}

func (a *altFake) Overflow() bool {
	o := a.over
	a.over = false
	return o
}

func (a *altFake) FlushInput() error {
	a.flushedIn++
	a.rx = nil
	return nil
}

func (a *altFake) FlushOutput() error {
	a.flushedOut++
	return nil
}

// usbFake reports host presence through DTR.
type usbFake struct {
	*fakeDriver
}

func (u usbFake) DTR() bool { return u.dtr }

// detectingFake reports overflow through OverflowDetector without being a
// software UART.
type detectingFake struct {
	*fakeDriver
}

func (d detectingFake) Overflow() bool {
	o := d.over
	d.over = false
	return o
}

// detectingUSBFake is a USB endpoint that detects overflow.
type detectingUSBFake struct {
	detectingFake
}

func (u detectingUSBFake) DTR() bool { return u.dtr }

// lineFake supports ReadUntil. overrun makes it report more bytes than it
// could have stored.
type lineFake struct {
	*fakeDriver
	overrun int
}

func (l *lineFake) ReadUntil(delim byte, buf []byte) int {
	n := 0
	for n < len(buf) {
		c, err := l.ReadByte()
		if err != nil || c == delim {
			break
		}
		buf[n] = c
		n++
	}
	return n + l.overrun
}

// loopback echoes everything written to it back into its receive buffer, so
// a port bound to it can read what a tee mirrored.
type loopback struct {
	*fakeDriver
}

func (l loopback) Write(p []byte) (int, error) {
	l.rx = append(l.rx, p...)
	l.tx = append(l.tx, p...)
	return len(p), nil
}
