package styles

import (
	"github.com/allbin/anyserial/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	InfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Green)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0)
)

// LinkState is what the status bar knows about the far end of a port.
type LinkState int

const (
	LinkUp LinkState = iota
	LinkDown
	LinkOpening
	LinkError
)

func LinkStyle(state LinkState) lipgloss.Style {
	switch state {
	case LinkUp:
		return lipgloss.NewStyle().Foreground(colors.Green).Bold(true)
	case LinkOpening:
		return lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colors.Red).Bold(true)
	}
}

// VariantStyle renders a variant name in its accent color.
func VariantStyle(name string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colors.Variant(name)).Bold(true)
}

// Check renders a pass/fail mark.
func Check(ok bool) string {
	if ok {
		return SuccessStyle.Render("✓")
	}
	return ErrorStyle.Render("✗")
}
