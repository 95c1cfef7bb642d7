//go:build !anyserial_nousb

package anyserial

func init() { compiled[USB] = true }

type usbBackend struct {
	neutral
	d USBSerial
}

func (b usbBackend) variant() Variant { return USB }
func (b usbBackend) driver() Driver   { return b.d }
func (b usbBackend) connected() bool  { return b.d.DTR() }
func (b usbBackend) overflow() bool   { return detectOverflow(b.d) }
func (b usbBackend) caps() Capability { return CapConnected }

// NewUSB returns a Port bound to a USB virtual serial endpoint.
func NewUSB(d USBSerial, opts ...Option) (*Port, error) {
	if isNil(d) {
		return nil, ErrNilDriver
	}
	return newPort(usbBackend{d: d}, opts...)
}

// AttachUSB rebinds p to a USB virtual serial endpoint.
func (p *Port) AttachUSB(d USBSerial) error {
	if isNil(d) {
		return ErrNilDriver
	}
	p.attach(usbBackend{d: d})
	return nil
}
