// Package softuart emulates bit-banged software UARTs on a host so the
// software variants of anyserial can be exercised without a board.
//
// All instances created from one Timer share it the way SoftwareSerial
// instances share a pin-change interrupt: only the listening Software
// instance receives, and bytes sent to any other instance are lost. A Timer
// also has a single slot for an Alt instance, which owns dedicated pins and
// always receives once begun.
//
// Instances transmit into an io.Writer and receive through Receive. Connect
// wires two instances together as a null modem:
//
//	timer := softuart.NewTimer()
//	a, _ := timer.NewSoftware(nil)
//	b, _ := timer.NewAlt(nil)
//	softuart.Connect(a, b)
//
// Receive buffers are bounded. A byte arriving on a full buffer is dropped and
// sets the overflow flag, which Overflow reports and clears.
package softuart
