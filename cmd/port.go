/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/driver/console"
	"github.com/allbin/anyserial/driver/softuart"
	"github.com/allbin/anyserial/driver/uart"
	"github.com/allbin/anyserial/driver/usbcdc"
	"go.bug.st/serial"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var errNoDevice = errors.New("no device given (use --device)")

// openTTY opens the host tty a software-emulated UART runs over.
var openTTY = func(path string, baud int) (io.ReadWriteCloser, error) {
	return serial.Open(path, &serial.Mode{BaudRate: baud})
}

// session is a begun Port plus everything that has to be torn down with it.
type session struct {
	Port    *anyserial.Port
	Path    string
	Baud    int
	log     *zap.Logger
	closers []func() error
	checks  []func() error
}

func (s *session) onClose(f func() error) {
	s.closers = append(s.closers, f)
}

// watch registers a check reporting why the link under the port stopped
// carrying bytes.
func (s *session) watch(f func() error) {
	s.checks = append(s.checks, f)
}

// Err returns the first link failure, or nil while the link is healthy.
func (s *session) Err() error {
	for _, check := range s.checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Close ends the port, then releases the rest in reverse order.
func (s *session) Close() error {
	if err := s.Err(); err != nil {
		s.log.Warn("link failed during session", zap.String("device", s.Path), zap.Error(err))
	}
	var err error
	if s.Port != nil {
		err = s.Port.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i]())
	}
	s.closers = nil
	return err
}

// openSession builds the driver for ps.Variant, binds a Port to it and
// begins it at ps.Baud.
func openSession(ps PortSettings, log *zap.Logger) (*session, error) {
	variant, err := anyserial.ParseVariant(ps.Variant)
	if err != nil {
		return nil, err
	}

	s := &session{Path: ps.Device, Baud: ps.Baud, log: log}
	opts := []anyserial.Option{anyserial.WithLogger(log.Named("port"))}

	if ps.Tee != "" {
		sink, closeSink, err := openTee(ps.Tee, log)
		if err != nil {
			return nil, err
		}
		s.onClose(closeSink)
		s.onClose(sink.Close)
		opts = append(opts, anyserial.WithDebugSink(sink), anyserial.WithDebugEnabled(true))
	}

	if err := bindDriver(s, variant, ps, opts); err != nil {
		s.Close()
		return nil, err
	}

	if err := s.Port.Begin(ps.Baud); err != nil {
		s.Close()
		return nil, err
	}
	log.Info("port open",
		zap.Stringer("variant", variant),
		zap.String("device", s.Path),
		zap.Int("baud", ps.Baud),
		zap.Stringer("capabilities", s.Port.Capabilities()))
	return s, nil
}

func bindDriver(s *session, variant anyserial.Variant, ps PortSettings, opts []anyserial.Option) error {
	var err error
	switch variant {
	case anyserial.Hardware:
		if ps.Device == "" {
			return errNoDevice
		}
		uopts, perr := uartOptions(ps)
		if perr != nil {
			return perr
		}
		u, uerr := uart.New(ps.Device, uopts...)
		if uerr != nil {
			return uerr
		}
		s.Path = u.Path()
		s.Port, err = anyserial.NewHardware(u, opts...)

	case anyserial.USB:
		if ps.Device == "console" {
			stdio := console.Stdio()
			s.Path = "stdio"
			s.watch(stdio.Err)
			s.Port, err = anyserial.NewUSB(stdio, opts...)
			break
		}
		path, ferr := resolveUSB(ps.Device)
		if ferr != nil {
			return ferr
		}
		var uopts []usbcdc.Option
		if ps.BufferSize > 0 {
			uopts = append(uopts, usbcdc.WithBufferSize(ps.BufferSize))
		}
		uopts = append(uopts, usbcdc.WithTimeout(ps.Timeout))
		u, uerr := usbcdc.New(path, uopts...)
		if uerr != nil {
			return uerr
		}
		s.Path = u.Path()
		s.watch(u.Err)
		s.Port, err = anyserial.NewUSB(u, opts...)

	case anyserial.SoftwareEmulated, anyserial.AltSoftwareEmulated:
		if ps.Device == "" {
			return errNoDevice
		}
		tty, terr := openTTY(ps.Device, ps.Baud)
		if terr != nil {
			return fmt.Errorf("failed to open %s: %w", ps.Device, terr)
		}
		s.onClose(tty.Close)

		sopts := []softuart.Option{softuart.WithTimeout(ps.Timeout)}
		if ps.BufferSize > 0 {
			sopts = append(sopts, softuart.WithBufferSize(ps.BufferSize))
		}
		timer := softuart.NewTimer()
		if variant == anyserial.SoftwareEmulated {
			sw, serr := timer.NewSoftware(nil, sopts...)
			if serr != nil {
				return serr
			}
			s.watch(wireCheck(softuart.Wire(sw, tty)))
			s.Port, err = anyserial.NewSoftware(sw, opts...)
		} else {
			alt, aerr := timer.NewAlt(nil, sopts...)
			if aerr != nil {
				return aerr
			}
			s.watch(wireCheck(softuart.Wire(alt, tty)))
			s.onClose(func() error { alt.Release(); return nil })
			s.Port, err = anyserial.NewAltSoftware(alt, opts...)
		}

	default:
		return fmt.Errorf("%w: %s", anyserial.ErrUnknownVariant, variant)
	}
	return err
}

// wireCheck turns the result channel of softuart.Wire into a session check.
// The failure is remembered once seen.
func wireCheck(done <-chan error) func() error {
	var failed error
	return func() error {
		if failed != nil {
			return failed
		}
		select {
		case err := <-done:
			if err != nil {
				failed = fmt.Errorf("tty link: %w", err)
			}
		default:
		}
		return failed
	}
}

func uartOptions(ps PortSettings) ([]uart.Option, error) {
	parity, err := parseParity(ps.Parity)
	if err != nil {
		return nil, err
	}
	return []uart.Option{
		uart.WithDataBits(ps.DataBits),
		uart.WithStopBits(ps.StopBits),
		uart.WithParity(parity),
		uart.WithTimeout(ps.Timeout),
	}, nil
}

func parseParity(s string) (uart.Parity, error) {
	switch strings.ToLower(s) {
	case "", "none", "n":
		return uart.ParityNone, nil
	case "odd", "o":
		return uart.ParityOdd, nil
	case "even", "e":
		return uart.ParityEven, nil
	}
	return uart.ParityNone, fmt.Errorf("unknown parity %q (use none, odd or even)", s)
}

// resolveUSB accepts a device path or a VID:PID pair.
func resolveUSB(device string) (string, error) {
	if device == "" {
		return "", errNoDevice
	}
	if strings.HasPrefix(device, "/") || !strings.Contains(device, ":") {
		return device, nil
	}
	vid, pid, _ := strings.Cut(device, ":")
	path, err := usbcdc.Find(vid, pid)
	if err != nil {
		return "", fmt.Errorf("no USB device %s: %w", device, err)
	}
	return path, nil
}

// openTee returns a begun console Port writing to stdout, stderr or a file.
func openTee(target string, log *zap.Logger) (*anyserial.Port, func() error, error) {
	var w io.Writer
	closer := func() error { return nil }
	switch target {
	case "stdout", "-":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open tee file: %w", err)
		}
		w, closer = f, f.Close
	}

	sink, err := anyserial.NewUSB(console.New(nil, w), anyserial.WithLogger(log.Named("tee")))
	if err != nil {
		closer()
		return nil, nil, err
	}
	if err := sink.Begin(0); err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to start tee: %w", err)
	}
	return sink, closer, nil
}
