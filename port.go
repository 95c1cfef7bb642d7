package anyserial

import (
	"io"

	"go.uber.org/zap"
)

// NoData is returned by Read and Peek when no byte is available.
const NoData = -1

// Port is a serial handle bound to exactly one driver. Every operation is
// routed to that driver; operations the driver's variant has no notion of
// return neutral values (see Capabilities to tell them apart).
//
// A Port must be obtained from NewHardware, NewSoftware, NewAltSoftware or
// NewUSB; the zero value has no driver and panics on use.
//
// A Port is not safe for concurrent use. It never owns its driver: the caller
// keeps the driver alive for as long as the Port is bound to it.
type Port struct {
	b      backend
	closed bool

	debugSink    *Port
	debugEnabled bool

	log *zap.Logger
}

var (
	_ io.Writer       = (*Port)(nil)
	_ io.ByteWriter   = (*Port)(nil)
	_ io.StringWriter = (*Port)(nil)
)

// NewHardware returns a Port bound to a hardware UART.
func NewHardware(d HardwareUART, opts ...Option) (*Port, error) {
	if isNil(d) {
		return nil, ErrNilDriver
	}
	return newPort(hardwareBackend{d: d}, opts...)
}

// AttachHardware rebinds p to a hardware UART.
func (p *Port) AttachHardware(d HardwareUART) error {
	if isNil(d) {
		return ErrNilDriver
	}
	p.attach(hardwareBackend{d: d})
	return nil
}

func newPort(b backend, opts ...Option) (*Port, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	p := &Port{
		b:   b,
		log: config.Logger,
	}
	if err := p.AttachDebug(config.DebugSink); err != nil {
		return nil, err
	}
	p.debugEnabled = config.DebugEnabled

	p.log.Debug("port created", zap.Stringer("variant", b.variant()))
	return p, nil
}

// attach swaps the binding in one step. The previous driver is not ended.
func (p *Port) attach(b backend) {
	prev := p.b.variant()
	p.b = b
	p.closed = false
	p.debugEnabled = false
	p.log.Debug("port attached",
		zap.Stringer("from", prev),
		zap.Stringer("to", b.variant()))
}

// Variant returns the kind of driver p is bound to.
func (p *Port) Variant() Variant {
	return p.b.variant()
}

// Driver returns the bound driver for backend-specific configuration. The
// caller type-asserts it according to Variant.
func (p *Port) Driver() Driver {
	return p.b.driver()
}

// Capabilities reports which optional operations the bound driver actually
// implements.
func (p *Port) Capabilities() Capability {
	return p.b.caps() | optionalCaps(p.b.driver())
}

// Supports reports whether all capabilities in c are available.
func (p *Port) Supports(c Capability) bool {
	return p.Capabilities().Has(c)
}

// Begin starts the driver at the given baud rate. The rate is passed through
// unchanged; framing and timing are up to the driver.
func (p *Port) Begin(baud int) error {
	p.log.Debug("begin", zap.Stringer("variant", p.b.variant()), zap.Int("baud", baud))
	return p.b.driver().Begin(baud)
}

// End shuts the driver down. It may be called more than once.
func (p *Port) End() error {
	p.log.Debug("end", zap.Stringer("variant", p.b.variant()))
	return p.b.driver().End()
}

// Close ends the bound driver once. Later calls return nil until the Port is
// attached to another driver.
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.End()
}

// Read returns the next byte, or NoData when nothing is buffered. A byte read
// is mirrored to the debug sink when the tee is enabled.
func (p *Port) Read() int {
	c, err := p.b.driver().ReadByte()
	if err != nil {
		return NoData
	}
	p.mirror([]byte{c})
	return int(c)
}

// Peek returns the next byte without consuming it, or NoData. Peeked bytes are
// never mirrored.
func (p *Port) Peek() int {
	c, err := p.b.driver().PeekByte()
	if err != nil {
		return NoData
	}
	return int(c)
}

// Available returns the number of bytes that can be read without waiting.
func (p *Port) Available() int {
	n := p.b.driver().Buffered()
	if n < 0 {
		return 0
	}
	return n
}

// Write sends b and returns how many bytes the driver accepted. Accepted bytes
// are mirrored to the debug sink when the tee is enabled. Errors come from the
// driver unchanged.
func (p *Port) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	n, err := p.b.driver().Write(b)
	n = clamp(n, len(b))
	if n > 0 {
		p.mirror(b[:n])
	}
	return n, err
}

// WriteByte sends a single byte.
func (p *Port) WriteByte(c byte) error {
	n, err := p.Write([]byte{c})
	if err != nil {
		return err
	}
	if n == 0 {
		return io.ErrShortWrite
	}
	return nil
}

// WriteString sends the bytes of s.
func (p *Port) WriteString(s string) (int, error) {
	return p.Write([]byte(s))
}

// Flush waits for pending output; it is FlushOutput.
func (p *Port) Flush() error {
	return p.FlushOutput()
}

// FlushInput discards pending input. Drivers without the capability make
// this a no-op.
func (p *Port) FlushInput() error {
	if f, ok := p.b.driver().(InputFlusher); ok {
		return f.FlushInput()
	}
	return nil
}

// FlushOutput blocks until pending output is transmitted. Drivers without
// the capability make this a no-op.
func (p *Port) FlushOutput() error {
	if f, ok := p.b.driver().(OutputFlusher); ok {
		return f.FlushOutput()
	}
	return nil
}

// Listen requests the shared receiver for software-emulated UARTs. Other
// variants always receive, so Listen trivially succeeds.
func (p *Port) Listen() bool {
	return p.b.listen()
}

// IsListening reports whether p holds the shared receiver. It is false for
// variants without listen arbitration.
func (p *Port) IsListening() bool {
	return p.b.isListening()
}

// Overflow reports and clears a receive overflow. It is false for drivers
// that cannot detect one.
func (p *Port) Overflow() bool {
	return p.b.overflow()
}

// Connected reports whether the far end is present. Only USB can tell; the
// other variants report true.
func (p *Port) Connected() bool {
	return p.b.connected()
}

// ReadUntil reads into buf until delim is seen or buf is full and returns the
// number of bytes stored. The delimiter is not stored. Drivers without the
// capability return 0 and leave buf untouched.
func (p *Port) ReadUntil(delim byte, buf []byte) int {
	dr, ok := p.b.driver().(DelimitedReader)
	if !ok || len(buf) == 0 {
		return 0
	}
	n := clamp(dr.ReadUntil(delim, buf[:len(buf):len(buf)]), len(buf))
	if n > 0 {
		p.mirror(buf[:n])
	}
	return n
}

// clamp bounds a driver-reported count to [0, limit].
func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
