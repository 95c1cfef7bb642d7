package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/anyserial/internal/payload"
	"github.com/allbin/anyserial/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// Direction tells which way a frame crossed the port.
type Direction int

const (
	RX Direction = iota
	TX
	Event // local notices such as overflow or listen changes
)

// Frame is one chunk of traffic, or a notice, shown in the terminal.
type Frame struct {
	Timestamp time.Time
	Dir       Direction
	Data      []byte
	Note      string
	Err       error
}

// FormatOptions controls which columns a formatted frame carries.
type FormatOptions struct {
	ShowHex        bool
	ShowASCII      bool
	ShowTimestamps bool
	ShowIndicators bool
}

// DefaultFormatOptions shows hex, ASCII and timestamps.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		ShowHex:        true,
		ShowASCII:      true,
		ShowTimestamps: true,
		ShowIndicators: true,
	}
}

type DataFormatter struct {
	opts FormatOptions
}

func NewDataFormatter(opts FormatOptions) *DataFormatter {
	return &DataFormatter{opts: opts}
}

func (df *DataFormatter) Options() FormatOptions {
	return df.opts
}

func (df *DataFormatter) SetFormatOptions(opts FormatOptions) {
	df.opts = opts
}

func (df *DataFormatter) ToggleHex()        { df.opts.ShowHex = !df.opts.ShowHex }
func (df *DataFormatter) ToggleASCII()      { df.opts.ShowASCII = !df.opts.ShowASCII }
func (df *DataFormatter) ToggleTimestamps() { df.opts.ShowTimestamps = !df.opts.ShowTimestamps }
func (df *DataFormatter) ToggleIndicators() { df.opts.ShowIndicators = !df.opts.ShowIndicators }

func (df *DataFormatter) indicator(f Frame) string {
	style := lipgloss.NewStyle().Bold(true)
	switch f.Dir {
	case TX:
		if f.Err != nil {
			return style.Foreground(colors.Red).Render("↗ TX ✗")
		}
		return style.Foreground(colors.Peach).Render("↗ TX")
	case Event:
		return style.Foreground(colors.Yellow).Render("• --")
	default:
		return style.Foreground(colors.Sky).Render("↙ RX")
	}
}

// FormatFrame renders f on a single line.
func (df *DataFormatter) FormatFrame(f Frame) string {
	var prefix []string
	if df.opts.ShowTimestamps {
		prefix = append(prefix, lipgloss.NewStyle().
			Foreground(colors.Subtext0).
			Render(fmt.Sprintf("[%s]", f.Timestamp.Format("15:04:05.000"))))
	}
	if df.opts.ShowIndicators || f.Dir == Event {
		prefix = append(prefix, df.indicator(f))
	}

	var body string
	switch {
	case f.Dir == Event:
		body = lipgloss.NewStyle().Foreground(colors.Yellow).Render(f.Note)
	case f.Err != nil:
		body = fmt.Sprintf("%d bytes, %v", len(f.Data), f.Err)
	default:
		body = df.formatData(f.Data)
	}

	if len(prefix) == 0 {
		return body
	}
	return strings.Join(prefix, " ") + ": " + body
}

func (df *DataFormatter) formatData(data []byte) string {
	var parts []string
	if df.opts.ShowHex {
		parts = append(parts, fmt.Sprintf("HEX: % X", data))
	}
	if df.opts.ShowASCII {
		parts = append(parts, "ASCII: "+payload.Printable(data, '.'))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(data)))
	}
	return strings.Join(parts, "  ")
}

func (df *DataFormatter) FormatFrames(frames []Frame) []string {
	formatted := make([]string, len(frames))
	for i, f := range frames {
		formatted[i] = df.FormatFrame(f)
	}
	return formatted
}
