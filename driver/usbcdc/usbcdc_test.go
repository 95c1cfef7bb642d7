package usbcdc

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/allbin/anyserial"
)

// fakePort feeds rx to the reader in one go and records everything else.
type fakePort struct {
	mu      sync.Mutex
	rx      []byte
	tx      []byte
	dtr     []bool
	closed  chan struct{}
	resets  int
	drains  int
	dtrErr  error
	readErr error
	timeout time.Duration
}

func newFakePort(rx string) *fakePort {
	return &fakePort{rx: []byte(rx), closed: make(chan struct{})}
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	if len(f.rx) > 0 {
		n := copy(p, f.rx)
		f.rx = f.rx[n:]
		f.mu.Unlock()
		return n, nil
	}
	readErr := f.readErr
	f.mu.Unlock()
	if readErr != nil {
		return 0, readErr
	}

	select {
	case <-f.closed:
		return 0, errors.New("port closed")
	case <-time.After(time.Millisecond):
		return 0, nil
	}
}

func (f *fakePort) feed(s string) {
	f.mu.Lock()
	f.rx = append(f.rx, s...)
	f.mu.Unlock()
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tx = append(f.tx, p...)
	return len(p), nil
}

func (f *fakePort) Close() error {
	close(f.closed)
	return nil
}

func (f *fakePort) SetDTR(dtr bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dtr = append(f.dtr, dtr)
	return f.dtrErr
}

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.timeout = t
	return nil
}

func (f *fakePort) ResetInputBuffer() error {
	f.resets++
	return nil
}

func (f *fakePort) Drain() error {
	f.drains++
	return nil
}

func withFakePorts(t *testing.T, ports ...*fakePort) *[]*serial.Mode {
	t.Helper()
	var modes []*serial.Mode
	old := openPort
	openPort = func(path string, mode *serial.Mode) (port, error) {
		modes = append(modes, mode)
		if len(ports) == 0 {
			return nil, errors.New("no such file or directory")
		}
		p := ports[0]
		ports = ports[1:]
		return p, nil
	}
	t.Cleanup(func() { openPort = old })
	return &modes
}

func TestBeginRaisesDTR(t *testing.T) {
	fp := newFakePort("")
	modes := withFakePorts(t, fp)

	u, err := New("/dev/ttyACM0")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", u.Path())
	assert.False(t, u.DTR())

	require.NoError(t, u.Begin(115200))
	defer u.End()
	assert.True(t, u.DTR())
	assert.Equal(t, []bool{true}, fp.dtr)
	assert.Equal(t, pollInterval, fp.timeout)
	require.Len(t, *modes, 1)
	assert.Equal(t, 115200, (*modes)[0].BaudRate)
}

func TestEndDropsDTRAndCloses(t *testing.T) {
	fp := newFakePort("")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0")
	require.NoError(t, u.Begin(9600))

	require.NoError(t, u.End())
	require.NoError(t, u.End())
	assert.False(t, u.DTR())
	assert.Equal(t, []bool{true, false}, fp.dtr)
	assert.NoError(t, u.Err(), "a read error after stop is not reported")

	_, err := u.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestBeginFailures(t *testing.T) {
	withFakePorts(t)
	u, _ := New("/dev/ttyACM9")
	err := u.Begin(9600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dev/ttyACM9")
	assert.False(t, u.DTR())

	fp := newFakePort("")
	fp.dtrErr = errors.New("ioctl failed")
	withFakePorts(t, fp)
	err = u.Begin(9600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DTR")
	select {
	case <-fp.closed:
	default:
		t.Error("port left open after failed Begin")
	}
}

func TestReceive(t *testing.T) {
	fp := newFakePort("hello")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0")
	require.NoError(t, u.Begin(9600))
	defer u.End()

	require.Eventually(t, func() bool { return u.Buffered() == 5 }, time.Second, time.Millisecond)

	b, err := u.PeekByte()
	require.NoError(t, err)
	assert.Equal(t, byte('h'), b)
	b, _ = u.ReadByte()
	assert.Equal(t, byte('h'), b)
	assert.Equal(t, 4, u.Buffered())

	require.NoError(t, u.FlushInput())
	assert.Equal(t, 0, u.Buffered())
	assert.Equal(t, 1, fp.resets)

	_, err = u.ReadByte()
	assert.ErrorIs(t, err, ErrNoData)
	_, err = u.PeekByte()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWriteAndDrain(t *testing.T) {
	fp := newFakePort("")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0")
	require.NoError(t, u.Begin(9600))
	defer u.End()

	n, err := u.Write([]byte("AT\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, u.FlushOutput())
	assert.Equal(t, 1, fp.drains)
}

func TestReadUntilAcrossChunks(t *testing.T) {
	fp := newFakePort("+CSQ: ")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0", WithTimeout(time.Second))
	require.NoError(t, u.Begin(9600))
	defer u.End()

	go func() {
		time.Sleep(5 * time.Millisecond)
		fp.feed("17,0\r\nOK")
	}()

	buf := make([]byte, 32)
	n := u.ReadUntil('\n', buf)
	assert.Equal(t, "+CSQ: 17,0\r", string(buf[:n]))
}

func TestReadUntilClosedReturnsBuffered(t *testing.T) {
	u, _ := New("/dev/ttyACM0")
	buf := make([]byte, 4)
	assert.Equal(t, 0, u.ReadUntil('\n', buf))
}

func TestOverflow(t *testing.T) {
	fp := newFakePort("0123456789")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0", WithBufferSize(4))
	require.NoError(t, u.Begin(9600))
	defer u.End()

	require.Eventually(t, u.Overflow, time.Second, time.Millisecond)
	assert.Equal(t, 4, u.Buffered())
}

func TestOptionsValidated(t *testing.T) {
	_, err := New("/dev/ttyACM0", WithBufferSize(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = New("/dev/ttyACM0", WithTimeout(-1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUSBPortConnected(t *testing.T) {
	fp := newFakePort("")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0")

	p, err := anyserial.NewUSB(u)
	require.NoError(t, err)
	assert.False(t, p.Connected())
	assert.True(t, p.Supports(anyserial.CapConnected|anyserial.CapReadUntil|anyserial.CapFlushInput))

	require.NoError(t, p.Begin(9600))
	assert.True(t, p.Connected())
	require.NoError(t, p.Close())
	assert.False(t, p.Connected())
}

func TestFind(t *testing.T) {
	old := detailedPorts
	detailedPorts = func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyACM1", IsUSB: true, VID: "2E8A", PID: "000A", Product: "Pico"},
			{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "8036", SerialNumber: "HIDPC"},
			nil,
		}, nil
	}
	defer func() { detailedPorts = old }()

	devices, err := Devices()
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "/dev/ttyACM0", devices[0].Path)
	assert.Equal(t, "2e8a", devices[1].VID)

	path, err := Find("2e8a", "000a")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM1", path)

	path, err = Find("2341", "")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", path)

	_, err = Find("0403", "6001")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestFindEnumeratorError(t *testing.T) {
	old := detailedPorts
	detailedPorts = func() ([]*enumerator.PortDetails, error) { return nil, io.ErrUnexpectedEOF }
	defer func() { detailedPorts = old }()

	_, err := Find("2341", "")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestUSBPortReportsOverflow(t *testing.T) {
	fp := newFakePort("0123456789")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0", WithBufferSize(4))

	p, err := anyserial.NewUSB(u)
	require.NoError(t, err)
	assert.True(t, p.Supports(anyserial.CapOverflow))

	require.NoError(t, p.Begin(9600))
	defer p.Close()

	require.Eventually(t, p.Overflow, time.Second, time.Millisecond)
	assert.False(t, p.Overflow(), "overflow is cleared once reported")
	assert.Equal(t, 4, p.Available())
}

func TestErrReportsReaderFailureWhileOpen(t *testing.T) {
	fp := newFakePort("")
	withFakePorts(t, fp)
	u, _ := New("/dev/ttyACM0")
	require.NoError(t, u.Begin(9600))
	defer u.End()
	assert.NoError(t, u.Err())

	unplugged := errors.New("device disconnected")
	fp.mu.Lock()
	fp.readErr = unplugged
	fp.mu.Unlock()

	require.Eventually(t, func() bool { return u.Err() != nil }, time.Second, time.Millisecond)
	assert.ErrorIs(t, u.Err(), unplugged)
}
