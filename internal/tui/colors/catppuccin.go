package colors

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the monitor and report views use
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Lavender = lipgloss.Color("#b4befe")
	Blue     = lipgloss.Color("#89b4fa")
	Sky      = lipgloss.Color("#89dceb")
	Teal     = lipgloss.Color("#94e2d5")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Mauve    = lipgloss.Color("#cba6f7")
)

// Variant returns the accent used for a port variant name. Unknown names get
// the neutral text color.
func Variant(name string) lipgloss.Color {
	switch name {
	case "hardware":
		return Blue
	case "software":
		return Peach
	case "altsoftware":
		return Yellow
	case "usb":
		return Teal
	default:
		return Text
	}
}
