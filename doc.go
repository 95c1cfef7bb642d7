// Package anyserial provides one serial handle over several incompatible
// backends: a hardware UART, software-emulated UARTs that share a timer, a
// low-jitter software UART, and a USB virtual serial endpoint.
//
// Code that needs "a serial port" takes a *Port and never learns which
// backend is behind it. The Port routes every call to the bound driver and
// fills in neutral results for operations that backend has no notion of.
//
// # Basic Usage
//
// Bind a handle to an already constructed driver and start it:
//
//	u, err := uart.New("/dev/ttyS0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port, err := anyserial.NewHardware(u)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	if err := port.Begin(9600); err != nil {
//	    log.Fatal(err)
//	}
//	port.WriteString("HELLO")
//	for port.Available() > 0 {
//	    b := port.Read()
//	    _ = b
//	}
//
// Read and Peek return NoData (-1) when nothing is buffered, so every byte
// value 0-255 stays distinguishable from "empty".
//
// # Variants and Neutral Results
//
// Each backend supports a different subset of the optional operations:
//
//	Operation     Hardware  Software  AltSoftware  USB
//	Listen        true      driver    true         true
//	IsListening   false     driver    false        false
//	Overflow      driver    driver    driver       driver
//	Connected     true      true      true         driver (DTR)
//	FlushInput    if the driver implements InputFlusher, else no-op
//	FlushOutput   if the driver implements OutputFlusher, else no-op
//	ReadUntil     if the driver implements DelimitedReader, else 0
//
// Hardware and USB forward Overflow only when the driver implements
// OverflowDetector, and report false otherwise.
//
// Because a neutral result looks like a legitimate one, use Capabilities or
// Supports when the difference matters:
//
//	if !port.Supports(anyserial.CapListen) {
//	    // no arbitration on this backend
//	}
//
// # Debug Tee
//
// A Port can mirror the bytes it reads and writes to a second Port, usually a
// console, without touching call sites:
//
//	console, _ := anyserial.NewUSB(consoleDriver)
//	port.AttachDebug(console)
//	port.SetDebugEnabled(true)
//
// Only bytes the driver confirmed are mirrored, after the primary operation
// returns. Peek is never mirrored. A sink that would mirror back into the
// Port, directly or through its own tee, is rejected with ErrDebugLoop.
//
// # Re-attaching
//
// AttachHardware, AttachSoftware, AttachAltSoftware and AttachUSB rebind a
// Port in place. The previous driver is not ended, and mirroring is switched
// off until SetDebugEnabled is called again.
//
// # Build-time Selection
//
// The software, alt-software and USB variants can be left out with the build
// tags anyserial_nosoftware, anyserial_noaltsoftware and anyserial_nousb.
// Constructing a variant that is not compiled in is a compile error;
// CompiledVariants reports what is available.
//
// # Concurrency
//
// A Port holds no locks. Calls on the same Port must be serialized by the
// caller. Listen arbitration between software instances belongs to the
// driver.
package anyserial
