//go:build !anyserial_noaltsoftware

package anyserial

func init() { compiled[AltSoftwareEmulated] = true }

type altSoftwareBackend struct {
	neutral
	d AltSoftwareUART
}

func (b altSoftwareBackend) variant() Variant { return AltSoftwareEmulated }
func (b altSoftwareBackend) driver() Driver   { return b.d }
func (b altSoftwareBackend) overflow() bool   { return b.d.Overflow() }
func (b altSoftwareBackend) caps() Capability { return CapOverflow }

// NewAltSoftware returns a Port bound to a low-jitter software UART.
func NewAltSoftware(d AltSoftwareUART, opts ...Option) (*Port, error) {
	if isNil(d) {
		return nil, ErrNilDriver
	}
	return newPort(altSoftwareBackend{d: d}, opts...)
}

// AttachAltSoftware rebinds p to a low-jitter software UART.
func (p *Port) AttachAltSoftware(d AltSoftwareUART) error {
	if isNil(d) {
		return ErrNilDriver
	}
	p.attach(altSoftwareBackend{d: d})
	return nil
}
