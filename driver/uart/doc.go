// Package uart is a hardware UART driver for anyserial, backed by a host tty.
//
// A UART is created closed. Begin opens the device and configures it raw at
// the requested baud rate; End closes it again. Framing (data bits, stop bits,
// parity) comes from the options given to New and can be changed between
// sessions:
//
//	u, err := uart.New("/dev/ttyUSB0", uart.WithParity(uart.ParityEven))
//	if err != nil {
//	    return err
//	}
//	port, _ := anyserial.NewHardware(u)
//	port.Begin(9600)
//
// Reads never block. ReadUntil waits up to the configured timeout for each
// byte, like a stream timeout on a microcontroller.
//
// On Linux the tty is driven directly through termios ioctls. Other hosts use
// github.com/tarm/serial with a background reader.
//
// ListPorts and GetPortInfo discover candidate devices.
package uart
