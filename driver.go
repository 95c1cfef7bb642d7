package anyserial

// Driver is the byte-level surface every backend provides. Drivers are owned
// by the caller; a Port only borrows them.
//
// ReadByte and PeekByte return an error when no byte is buffered. Buffered
// reports how many bytes can be read without waiting.
type Driver interface {
	Begin(baud int) error
	End() error
	ReadByte() (byte, error)
	PeekByte() (byte, error)
	Buffered() int
	Write(p []byte) (int, error)
}

// HardwareUART is a dedicated UART peripheral with an always-on receiver.
type HardwareUART interface {
	Driver
}

// SoftwareUART is a pin-driven UART emulation. Several instances may share
// one timer, and only the listening instance receives.
type SoftwareUART interface {
	Driver

	// Listen asks for the shared receiver. It returns true if this call
	// moved reception to this instance.
	Listen() bool
	IsListening() bool

	// Overflow reports whether receive data was lost since the last call,
	// and clears the condition.
	Overflow() bool
}

// AltSoftwareUART is a low-jitter software UART bound to a fixed timer.
// There is no arbitration: the single instance always receives.
type AltSoftwareUART interface {
	Driver
	Overflow() bool
}

// USBSerial is a USB CDC virtual serial endpoint.
type USBSerial interface {
	Driver

	// DTR reports whether the host side has the port open.
	DTR() bool
}

// InputFlusher is implemented by drivers that can discard pending input.
type InputFlusher interface {
	FlushInput() error
}

// OutputFlusher is implemented by drivers that can wait for pending output
// to leave the wire.
type OutputFlusher interface {
	FlushOutput() error
}

// OverflowDetector is implemented by drivers outside the software variants
// that can tell when received bytes were dropped. Overflow reports and clears
// the condition.
type OverflowDetector interface {
	Overflow() bool
}

// DelimitedReader is implemented by drivers that support reading up to a
// terminator byte. The terminator is consumed but not stored. The return
// value is the number of bytes placed in buf.
type DelimitedReader interface {
	ReadUntil(delim byte, buf []byte) int
}
