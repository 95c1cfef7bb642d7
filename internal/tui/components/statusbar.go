package components

import (
	"fmt"

	"github.com/allbin/anyserial/internal/tui/colors"
	"github.com/allbin/anyserial/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// ConnectionInfo describes the port a status bar reports on.
type ConnectionInfo struct {
	Variant      string
	Baud         int
	Capabilities string
	TeeEnabled   bool
	TeeAttached  bool
	Listening    bool
	ShowListen   bool
}

// StatusBar is the bottom line of the monitor, laid out like an editor mode
// line: mode, port and link state on the left, port details on the right.
type StatusBar struct {
	portPath  string
	status    string
	err       error
	width     int
	info      ConnectionInfo
	overflows int
}

func NewStatusBar(portPath string, info ConnectionInfo) *StatusBar {
	return &StatusBar{
		portPath: portPath,
		status:   "Opening...",
		info:     info,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetStatus(status string, err error) {
	sb.status = status
	sb.err = err
}

func (sb *StatusBar) Status() (string, error) {
	return sb.status, sb.err
}

func (sb *StatusBar) SetConnectionInfo(info ConnectionInfo) {
	sb.info = info
}

func (sb *StatusBar) Info() ConnectionInfo {
	return sb.info
}

// AddOverflow counts one reported receive overflow.
func (sb *StatusBar) AddOverflow() {
	sb.overflows++
}

func (sb *StatusBar) Overflows() int {
	return sb.overflows
}

func (sb *StatusBar) linkState(connected bool) styles.LinkState {
	switch {
	case sb.err != nil:
		return styles.LinkError
	case connected:
		return styles.LinkUp
	case sb.status == "Opening...":
		return styles.LinkOpening
	default:
		return styles.LinkDown
	}
}

func (sb *StatusBar) details() string {
	parts := fmt.Sprintf("⚡ %s %d baud", sb.info.Variant, sb.info.Baud)
	if sb.info.ShowListen {
		if sb.info.Listening {
			parts += " listen:✓"
		} else {
			parts += " listen:✗"
		}
	}
	if sb.info.TeeAttached {
		if sb.info.TeeEnabled {
			parts += " tee:on"
		} else {
			parts += " tee:off"
		}
	}
	if sb.overflows > 0 {
		parts += fmt.Sprintf(" ovf:%d", sb.overflows)
	}
	return parts
}

// View renders the bar at the configured width.
func (sb *StatusBar) View(mode, sendMode string, connected bool, timestamp string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1)
	if mode == "INSERT" {
		modeStyle = modeStyle.Background(colors.Green)
	}

	port := lipgloss.NewStyle().
		Foreground(colors.Variant(sb.info.Variant)).
		Bold(true).
		Padding(0, 1).
		Render(sb.portPath)

	indicator := "●"
	if state := sb.linkState(connected); state != styles.LinkUp {
		indicator = "○"
		if state == styles.LinkError {
			indicator = "✗"
		}
	}
	link := styles.LinkStyle(sb.linkState(connected)).Render(indicator)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{modeStyle.Render(mode), port, link}
	if mode == "INSERT" {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendMode)))
	} else if sb.err != nil {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Red).
			Padding(0, 1).
			Render(sb.err.Error()))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	rightSide := lipgloss.JoinHorizontal(lipgloss.Left,
		lipgloss.NewStyle().Foreground(colors.Subtext0).Padding(0, 1).Render(sb.details()),
		divider,
		lipgloss.NewStyle().Foreground(colors.Subtext1).Padding(0, 1).Render(timestamp))

	spacer := lipgloss.NewStyle().
		Width(max(width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)).
		Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
