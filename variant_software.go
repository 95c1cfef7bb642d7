//go:build !anyserial_nosoftware

package anyserial

func init() { compiled[SoftwareEmulated] = true }

type softwareBackend struct {
	d SoftwareUART
}

func (b softwareBackend) variant() Variant  { return SoftwareEmulated }
func (b softwareBackend) driver() Driver    { return b.d }
func (b softwareBackend) listen() bool      { return b.d.Listen() }
func (b softwareBackend) isListening() bool { return b.d.IsListening() }
func (b softwareBackend) overflow() bool    { return b.d.Overflow() }
func (b softwareBackend) connected() bool   { return true }
func (b softwareBackend) caps() Capability  { return CapListen | CapOverflow }

// NewSoftware returns a Port bound to a software-emulated UART.
func NewSoftware(d SoftwareUART, opts ...Option) (*Port, error) {
	if isNil(d) {
		return nil, ErrNilDriver
	}
	return newPort(softwareBackend{d: d}, opts...)
}

// AttachSoftware rebinds p to a software-emulated UART.
func (p *Port) AttachSoftware(d SoftwareUART) error {
	if isNil(d) {
		return ErrNilDriver
	}
	p.attach(softwareBackend{d: d})
	return nil
}
