/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/allbin/anyserial/internal/payload"
	"github.com/allbin/anyserial/internal/tui/components"
	"github.com/allbin/anyserial/internal/tui/keys"
	"github.com/allbin/anyserial/internal/tui/models"
	"github.com/allbin/anyserial/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive terminal on a port of any variant",
	Long: `Open a port and show everything read from it, with an input line for
writing back. The port is polled through Available and Read, so the same
view works for hardware, software-emulated and USB ports.

Keys (normal mode):
  i        insert mode (type, Enter sends, Tab switches ASCII/HEX)
  h a t r  toggle hex, ascii, timestamps, rx/tx indicators
  d        toggle the debug tee (needs --tee)
  l        request the shared receiver (software variant)
  f        discard pending input
  c        clear, ? help, q quit

Examples:
  anyserial monitor -d /dev/ttyUSB0
  anyserial monitor -V usb -d 2341:8036 --tee session.log
  anyserial monitor -V software -d /dev/ttyS1 --baud 9600`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		showIndicators, _ := cmd.Flags().GetBool("show-indicators")
		rawMode, _ := cmd.Flags().GetBool("raw")
		hexInput, _ := cmd.Flags().GetBool("hex-input")
		endingName, _ := cmd.Flags().GetString("line-ending")
		poll, _ := cmd.Flags().GetDuration("poll")

		opts := components.DefaultFormatOptions()
		opts.ShowTimestamps = !noTimestamps && !rawMode
		opts.ShowIndicators = showIndicators && !rawMode

		ending, err := payload.LineEnding(endingName)
		if err != nil {
			return err
		}
		mode := payload.ASCII
		if hexInput {
			mode = payload.Hex
		}

		if settings.Port.Tee == "stdout" || settings.Port.Tee == "-" {
			return fmt.Errorf("--tee stdout would draw over the monitor; use stderr or a file")
		}

		s, err := openSession(settings.Port, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		m := newMonitorModel(models.NewSerialModel(s.Port, s.Path, s.Baud), opts, mode, ending, poll)
		m.linkErr = s.Err
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		rx, tx := m.serial.Counters()
		logger.Info("monitor closed", zap.Int("rx", rx), zap.Int("tx", tx))
		return err
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	addPortFlags(monitorCmd)
	monitorCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	monitorCmd.Flags().Bool("show-indicators", true, "Show RX/TX indicators")
	monitorCmd.Flags().Bool("raw", false, "Raw output mode: no timestamps, no indicators")
	monitorCmd.Flags().Bool("hex-input", false, "Start the input line in hex mode")
	monitorCmd.Flags().String("line-ending", "crlf", "Line ending appended to ASCII input: none, lf, cr, crlf")
	monitorCmd.Flags().Duration("poll", 20*time.Millisecond, "Receive poll interval")
}

// pollMsg drives reading. All port access happens in Update, so the port
// never sees two goroutines.
type pollMsg time.Time

const pollChunk = 4096

type monitorModel struct {
	serial    *models.SerialModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.MonitorKeys
	poll      time.Duration
	now       func() time.Time
	linkErr   func() error
	width     int
	height    int
	ready     bool
}

func newMonitorModel(serial *models.SerialModel, opts components.FormatOptions, mode payload.Mode, ending string, poll time.Duration) *monitorModel {
	if poll <= 0 {
		poll = 20 * time.Millisecond
	}
	m := &monitorModel{
		serial:    serial,
		terminal:  components.NewTerminal(80, 20, opts),
		statusBar: components.NewStatusBar(serial.PortPath(), serial.ConnectionInfo()),
		input:     components.NewInput(mode, ending),
		help:      help.New(),
		keys:      keys.NewMonitorKeys(),
		poll:      poll,
		now:       time.Now,
	}
	m.statusBar.SetStatus("Connected", nil)
	return m
}

func (m *monitorModel) tick() tea.Cmd {
	return tea.Tick(m.poll, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m *monitorModel) Init() tea.Cmd {
	return m.tick()
}

func (m *monitorModel) note(format string, args ...any) {
	m.terminal.Add(components.Frame{
		Timestamp: m.now(),
		Dir:       components.Event,
		Note:      fmt.Sprintf(format, args...),
	})
}

// receive drains what the port has buffered into the terminal.
func (m *monitorModel) receive() {
	if data := m.serial.Poll(pollChunk); len(data) > 0 {
		m.terminal.Add(components.Frame{Timestamp: m.now(), Dir: components.RX, Data: data})
	}
	if m.serial.Overflow() {
		m.statusBar.AddOverflow()
		m.note("receive overflow, bytes were lost")
	}
	if m.linkErr != nil && m.serial.Err() == nil {
		if err := m.linkErr(); err != nil {
			m.serial.SetError(err)
			m.statusBar.SetStatus("Link lost", err)
			m.note("link lost: %v", err)
		}
	}
	m.statusBar.SetConnectionInfo(m.serial.ConnectionInfo())
}

func (m *monitorModel) layout() {
	// status bar + input box (3 lines) + the content border
	reserved := 1 + 3 + 1
	if m.help.ShowAll {
		reserved += lipgloss.Height(m.helpView())
	}
	m.terminal.SetSize(m.width, max(m.height-reserved, 1))
	m.statusBar.SetWidth(m.width)
	m.input.SetWidth(m.width)
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, m.terminal.Update(msg)

	case pollMsg:
		m.receive()
		return m, m.tick()

	case tea.KeyMsg:
		if m.serial.IsInInsertMode() {
			return m, m.updateInsert(msg)
		}
		return m, m.updateNormal(msg)
	}
	return m, nil
}

func (m *monitorModel) updateInsert(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.serial.SetInputMode(models.InputModeNormal)
		m.input.Blur()
	case key.Matches(msg, m.keys.Enter):
		b, err := m.input.Submit()
		if err != nil {
			m.statusBar.SetStatus("Invalid input", err)
			return nil
		}
		m.statusBar.SetStatus("Connected", nil)
		if len(b) == 0 {
			return nil
		}
		f := m.serial.Send(b)
		f.Timestamp = m.now()
		m.terminal.Add(f)
	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleMode()
	case key.Matches(msg, m.keys.HistoryUp):
		m.input.HistoryUp()
	case key.Matches(msg, m.keys.HistoryDown):
		m.input.HistoryDown()
	default:
		return m.input.Update(msg)
	}
	return nil
}

func (m *monitorModel) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.InsertMode):
		m.serial.SetInputMode(models.InputModeInsert)
		return m.input.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.terminal.Clear()
	case key.Matches(msg, m.keys.ToggleHex):
		m.terminal.ToggleHex()
	case key.Matches(msg, m.keys.ToggleASCII):
		m.terminal.ToggleASCII()
	case key.Matches(msg, m.keys.ToggleTimestamps):
		m.terminal.ToggleTimestamps()
	case key.Matches(msg, m.keys.ToggleIndicators):
		m.terminal.ToggleIndicators()
	case key.Matches(msg, m.keys.Up):
		m.terminal.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.terminal.ScrollDown()
	case key.Matches(msg, m.keys.GotoTop):
		m.terminal.GotoTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.terminal.GotoBottom()
	case key.Matches(msg, m.keys.ToggleTee):
		if m.serial.Port().DebugSink() == nil {
			m.note("no debug sink attached (start with --tee)")
		} else if m.serial.ToggleTee() {
			m.note("debug tee on")
		} else {
			m.note("debug tee off")
		}
	case key.Matches(msg, m.keys.Listen):
		if m.serial.Listen() {
			m.note("took over the shared receiver")
		} else if m.serial.Port().IsListening() {
			m.note("already listening")
		} else {
			m.note("listen refused")
		}
	case key.Matches(msg, m.keys.FlushInput):
		if err := m.serial.FlushInput(); err != nil {
			m.note("flush failed: %v", err)
		} else {
			m.note("input flushed")
		}
	}
	m.statusBar.SetConnectionInfo(m.serial.ConnectionInfo())
	return nil
}

func (m *monitorModel) helpView() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 2).
		Render(m.help.View(m.keys))
}

func (m *monitorModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	parts := []string{
		styles.ContentBorderStyle.Render(m.terminal.View()),
		m.input.View(m.serial.IsInInsertMode()),
	}
	if m.help.ShowAll {
		parts = append(parts, m.helpView())
	}
	parts = append(parts, m.statusBar.View(
		m.serial.InputMode().String(),
		m.input.Mode().String(),
		m.serial.Connected(),
		m.now().Format("15:04:05")))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
