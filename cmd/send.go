/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/internal/payload"
	"github.com/allbin/anyserial/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data]",
	Short: "Send data through a port",
	Long: `Send data through a port of any variant.

Data can be provided as:
- Command line argument: anyserial send "Hello World" -d /dev/ttyUSB0
- From stdin (pipe): echo "test data" | anyserial send -d /dev/ttyUSB0
- Interactive mode: anyserial send -d /dev/ttyUSB0 (prompts for input)

With --reply the command waits for one line back, read with ReadUntil, and
prints it. With --tee stdout every byte sent and received is mirrored
through the debug tee.

Example usage:
  anyserial send "AT+GMR" -d /dev/ttyUSB0 --newline --reply
  anyserial send "0206000300000099" --hex -V usb -d 2341:8036
  anyserial send "ping" -V software -d /dev/ttyS1 --baud 9600 --tee stdout`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data string
		if len(args) == 1 {
			data = args[0]
		} else {
			stat, err := os.Stdin.Stat()
			if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
				data = promptForData()
			} else {
				stdinData, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				data = strings.TrimRight(string(stdinData), "\r\n")
			}
		}

		hexMode, _ := cmd.Flags().GetBool("hex")
		addNewline, _ := cmd.Flags().GetBool("newline")
		endingName, _ := cmd.Flags().GetString("line-ending")
		reply, _ := cmd.Flags().GetBool("reply")

		if addNewline && endingName == "none" {
			endingName = "lf"
		}
		ending, err := payload.LineEnding(endingName)
		if err != nil {
			return err
		}
		mode := payload.ASCII
		if hexMode {
			mode = payload.Hex
		}
		b, err := payload.Build(data, mode, ending)
		if err != nil {
			return fmt.Errorf("invalid data: %w", err)
		}

		return sendData(settings.Port, b, reply)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	addPortFlags(sendCmd)
	sendCmd.Flags().BoolP("newline", "n", false, "Add newline character to the end of data")
	sendCmd.Flags().String("line-ending", "none", "Line ending to append: none, lf, cr, crlf")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
	sendCmd.Flags().BoolP("reply", "r", false, "Wait for and print one line of reply")
}

func promptForData() string {
	promptStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	fmt.Print(promptStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

func sendData(ps PortSettings, data []byte, reply bool) error {
	fmt.Printf("%s Opening %s %s...\n", styles.InfoStyle.Render("⚡"), ps.Variant, ps.Device)

	s, err := openSession(ps, logger)
	if err != nil {
		return fmt.Errorf("%s %w", styles.ErrorStyle.Render("✗"), err)
	}
	defer s.Close()

	fmt.Printf("%s Opened %s (%s)\n", styles.Check(true), s.Path, s.Port.Capabilities())

	n, err := writeAll(s.Port, data)
	if err != nil {
		return fmt.Errorf("%s sent %d of %d bytes: %w", styles.ErrorStyle.Render("✗"), n, len(data), err)
	}
	if err := s.Port.Flush(); err != nil {
		logger.Warn("flush failed", zap.Error(err))
	}
	fmt.Printf("%s Sent %d bytes: %s\n", styles.Check(true), n, preview(data, 50))

	if !reply {
		return nil
	}
	if !s.Port.Supports(anyserial.CapReadUntil) {
		return fmt.Errorf("%s %s ports cannot read a reply line", styles.ErrorStyle.Render("✗"), s.Port.Variant())
	}
	buf := make([]byte, 1024)
	got := s.Port.ReadUntil('\n', buf)
	line := strings.TrimRight(string(buf[:got]), "\r")
	if got == 0 {
		fmt.Printf("%s No reply within %s\n", styles.MutedStyle.Render("…"), ps.Timeout)
		return nil
	}
	fmt.Printf("%s Reply: %s\n", styles.Check(true), preview([]byte(line), 200))
	return nil
}

// writeAll writes data through p, retrying short writes a bounded number of
// times.
func writeAll(p *anyserial.Port, data []byte) (int, error) {
	total := 0
	for attempts := 0; total < len(data) && attempts < 100; attempts++ {
		n, err := p.Write(data[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	if total < len(data) {
		return total, io.ErrShortWrite
	}
	return total, nil
}

// preview shows at most limit bytes with non-printables replaced.
func preview(data []byte, limit int) string {
	if len(data) > limit {
		return payload.Printable(data[:limit], '·') + "..."
	}
	return payload.Printable(data, '·')
}
