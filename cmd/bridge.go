/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/driver/console"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// bridgeCmd represents the bridge command
var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Connect a port to this terminal",
	Long: `Copy bytes between a port and this terminal until interrupted. The
terminal side is itself a port (the console driver, a USB variant), so both
directions go through the same Read, Available and Write calls.

With --line, input from the port is read a line at a time with ReadUntil and
printed with a timestamp. This needs a driver with the read-until capability;
lines are split at the driver's timeout when no newline arrives.

Examples:
  anyserial bridge -d /dev/ttyUSB0 --baud 9600
  anyserial bridge -V usb -d /dev/ttyACM0 --line --tee traffic.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		line, _ := cmd.Flags().GetBool("line")
		poll, _ := cmd.Flags().GetDuration("poll")

		if settings.Port.Tee == "stdout" || settings.Port.Tee == "-" {
			return fmt.Errorf("--tee stdout would echo every byte twice; use stderr or a file")
		}

		s, err := openSession(settings.Port, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		if line && !s.Port.Supports(anyserial.CapReadUntil) {
			return fmt.Errorf("%s ports cannot read lines", s.Port.Variant())
		}

		stdio := console.Stdio()
		local, err := anyserial.NewUSB(stdio, anyserial.WithLogger(logger.Named("console")))
		if err != nil {
			return err
		}
		if err := local.Begin(0); err != nil {
			return err
		}
		defer local.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "Bridging %s (%s). Press Ctrl+C to stop.\n", s.Path, s.Port.Variant())
		st, err := runBridge(ctx, s.Port, local, bridgeOptions{line: line, poll: poll, now: time.Now, linkErr: s.Err})
		logger.Info("bridge stopped",
			zap.Int("from_port", st.fromPort),
			zap.Int("to_port", st.toPort),
			zap.NamedError("console", stdio.Err()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	addPortFlags(bridgeCmd)
	bridgeCmd.Flags().BoolP("line", "l", false, "Read the port line by line and timestamp each line")
	bridgeCmd.Flags().Duration("poll", 10*time.Millisecond, "Idle poll interval")
}

type bridgeOptions struct {
	line    bool
	poll    time.Duration
	now     func() time.Time
	linkErr func() error
}

type bridgeStats struct {
	fromPort int
	toPort   int
}

// runBridge shuttles bytes between primary and local until ctx is done. It
// owns both ports for its whole run.
func runBridge(ctx context.Context, primary, local *anyserial.Port, opts bridgeOptions) (bridgeStats, error) {
	var st bridgeStats
	buf := make([]byte, 1024)
	for {
		select {
		case <-ctx.Done():
			return st, nil
		default:
		}

		var n int
		var err error
		if opts.line {
			n, err = relayLine(primary, local, buf, opts.now)
		} else {
			n, err = relay(primary, local, buf)
		}
		if err != nil {
			return st, fmt.Errorf("writing to console: %w", err)
		}
		st.fromPort += n

		m, err := relay(local, primary, buf)
		if err != nil {
			return st, fmt.Errorf("writing to port: %w", err)
		}
		st.toPort += m

		if n == 0 && m == 0 {
			if opts.linkErr != nil {
				if err := opts.linkErr(); err != nil {
					return st, fmt.Errorf("port link: %w", err)
				}
			}
			select {
			case <-ctx.Done():
				return st, nil
			case <-time.After(opts.poll):
			}
		}
	}
}

// relay moves whatever src has buffered, up to len(buf), to dst.
func relay(src, dst *anyserial.Port, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		c := src.Read()
		if c == anyserial.NoData {
			break
		}
		buf[n] = byte(c)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return writeAll(dst, buf[:n])
}

func relayLine(src, dst *anyserial.Port, buf []byte, now func() time.Time) (int, error) {
	if src.Available() == 0 {
		return 0, nil
	}
	n := src.ReadUntil('\n', buf)
	if n == 0 {
		return 0, nil
	}
	line := buf[:n]
	if line[n-1] == '\r' {
		line = line[:n-1]
	}
	_, err := dst.WriteString(fmt.Sprintf("[%s] %s\n", now().Format("15:04:05.000"), line))
	return n, err
}
