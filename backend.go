package anyserial

import "reflect"

// backend is the closed set of driver bindings a Port can hold. Each variant
// carries its own driver interface and answers the variant-specific queries
// itself; operations a variant has no notion of fall back to neutral.
type backend interface {
	variant() Variant
	driver() Driver
	listen() bool
	isListening() bool
	overflow() bool
	connected() bool
	caps() Capability
}

// neutral supplies the values a variant reports for operations it lacks.
type neutral struct{}

func (neutral) listen() bool      { return true }
func (neutral) isListening() bool { return false }
func (neutral) overflow() bool    { return false }
func (neutral) connected() bool   { return true }
func (neutral) caps() Capability  { return 0 }

type hardwareBackend struct {
	neutral
	d HardwareUART
}

func (b hardwareBackend) variant() Variant { return Hardware }
func (b hardwareBackend) driver() Driver   { return b.d }
func (b hardwareBackend) overflow() bool   { return detectOverflow(b.d) }

// isNil reports whether d is nil or an interface holding a nil pointer.
func isNil(d any) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// detectOverflow forwards to d when it implements OverflowDetector and is
// otherwise the neutral false.
func detectOverflow(d Driver) bool {
	if o, ok := d.(OverflowDetector); ok {
		return o.Overflow()
	}
	return false
}

// optionalCaps reports the capabilities d provides through the optional
// interfaces, independent of variant.
func optionalCaps(d Driver) Capability {
	var c Capability
	if _, ok := d.(InputFlusher); ok {
		c |= CapFlushInput
	}
	if _, ok := d.(OutputFlusher); ok {
		c |= CapFlushOutput
	}
	if _, ok := d.(OverflowDetector); ok {
		c |= CapOverflow
	}
	if _, ok := d.(DelimitedReader); ok {
		c |= CapReadUntil
	}
	return c
}
