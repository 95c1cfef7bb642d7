package uart

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// tty is a termios-configured file descriptor with VMIN=0 and VTIME=0, so
// reads return immediately with whatever the kernel has buffered.
type tty struct {
	fd int
}

func open(path string, baud int, config Config) (device, error) {
	speed, err := getBaudRate(baud)
	if err != nil {
		return nil, err
	}

	flags := unix.O_RDWR | unix.O_NOCTTY
	if config.WriteMode == WriteModeSynced {
		flags |= unix.O_SYNC
	}

	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return nil, err
	}

	if err := configurePort(fd, speed, config); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &tty{fd: fd}, nil
}

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	switch rate {
	case 50:
		return unix.B50, nil
	case 75:
		return unix.B75, nil
	case 110:
		return unix.B110, nil
	case 134:
		return unix.B134, nil
	case 150:
		return unix.B150, nil
	case 200:
		return unix.B200, nil
	case 300:
		return unix.B300, nil
	case 600:
		return unix.B600, nil
	case 1200:
		return unix.B1200, nil
	case 1800:
		return unix.B1800, nil
	case 2400:
		return unix.B2400, nil
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 500000:
		return unix.B500000, nil
	case 576000:
		return unix.B576000, nil
	case 921600:
		return unix.B921600, nil
	case 1000000:
		return unix.B1000000, nil
	case 1152000:
		return unix.B1152000, nil
	case 1500000:
		return unix.B1500000, nil
	case 2000000:
		return unix.B2000000, nil
	case 2500000:
		return unix.B2500000, nil
	case 3000000:
		return unix.B3000000, nil
	case 3500000:
		return unix.B3500000, nil
	case 4000000:
		return unix.B4000000, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
	}
}

// configurePort puts the tty in raw mode with the requested framing
func configurePort(fd int, speed uint32, config Config) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	termios.Cflag = unix.CREAD | unix.CLOCAL | dataBitsFlag(config.DataBits)
	termios.Iflag = 0
	termios.Oflag = 0
	termios.Lflag = 0

	// Non-blocking reads; waiting is done with poll
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	termios.Cflag = (termios.Cflag &^ unix.CBAUD) | speed
	termios.Ispeed = speed
	termios.Ospeed = speed

	if config.StopBits == 2 {
		termios.Cflag |= unix.CSTOPB
	}

	switch config.Parity {
	case ParityOdd:
		termios.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		termios.Cflag |= unix.PARENB
	}

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}
	return nil
}

func dataBitsFlag(bits int) uint32 {
	switch bits {
	case 5:
		return unix.CS5
	case 6:
		return unix.CS6
	case 7:
		return unix.CS7
	default:
		return unix.CS8
	}
}

func (t *tty) read(p []byte) (int, error) {
	n, err := unix.Read(t.fd, p)
	if err == unix.EAGAIN || err == unix.EINTR {
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

func (t *tty) Write(p []byte) (int, error) {
	n, err := unix.Write(t.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (t *tty) pending() int {
	n, err := unix.IoctlGetInt(t.fd, unix.TIOCINQ)
	if err != nil {
		return 0
	}
	return n
}

func (t *tty) wait(timeout time.Duration) bool {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	return err == nil && n > 0 && fds[0].Revents&unix.POLLIN != 0
}

func (t *tty) discard() error {
	return unix.IoctlSetInt(t.fd, unix.TCFLSH, unix.TCIFLUSH)
}

func (t *tty) drain() error {
	return unix.IoctlSetInt(t.fd, unix.TCSBRK, 1)
}

func (t *tty) Close() error {
	return unix.Close(t.fd)
}
