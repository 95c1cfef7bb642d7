package keys

import "github.com/charmbracelet/bubbles/key"

// MonitorKeys adds sending and the port controls to the terminal keys.
type MonitorKeys struct {
	TerminalKeys
	Enter          key.Binding
	ToggleSendMode key.Binding
	HistoryUp      key.Binding
	HistoryDown    key.Binding
	ToggleTee      key.Binding
	Listen         key.Binding
	FlushInput     key.Binding
}

func NewMonitorKeys() MonitorKeys {
	return MonitorKeys{
		TerminalKeys: NewTerminalKeys(),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		ToggleSendMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "ascii/hex"),
		),
		HistoryUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous"),
		),
		HistoryDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next"),
		),
		ToggleTee: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle debug tee"),
		),
		Listen: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "listen"),
		),
		FlushInput: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flush input"),
		),
	}
}

func (k MonitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.InsertMode, k.ToggleTee, k.Enter, k.Quit}
}

func (k MonitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.InsertMode, k.Escape, k.Clear, k.Enter, k.ToggleSendMode},
		{k.ToggleHex, k.ToggleASCII, k.ToggleTimestamps, k.ToggleIndicators},
		{k.GotoTop, k.GotoBottom, k.Up, k.Down},
		{k.ToggleTee, k.Listen, k.FlushInput, k.Help, k.Quit},
	}
}
