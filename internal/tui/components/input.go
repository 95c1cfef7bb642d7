package components

import (
	"strings"

	"github.com/allbin/anyserial/internal/payload"
	"github.com/allbin/anyserial/internal/tui/colors"
	"github.com/allbin/anyserial/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const historyLimit = 100

// Input is the single-line editor used to write to the port.
type Input struct {
	textInput    textinput.Model
	mode         payload.Mode
	lineEnding   string
	history      []string
	historyIndex int
	pending      string // text being typed before history navigation started
	width        int
}

func NewInput(mode payload.Mode, lineEnding string) *Input {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = ""

	in := &Input{
		textInput:    ti,
		lineEnding:   lineEnding,
		historyIndex: -1,
	}
	in.setMode(mode)
	return in
}

func (i *Input) setMode(mode payload.Mode) {
	i.mode = mode
	if mode == payload.Hex {
		i.textInput.Placeholder = "Enter hex (e.g. 48656C6C6F or 48 65 6C 6C 6F)..."
	} else {
		i.textInput.Placeholder = "Type and press Enter to send..."
	}
}

func (i *Input) SetWidth(width int) {
	i.width = width
	// border(2) + padding(2) + prompt(1) + space(1)
	i.textInput.Width = max(width-6, 20)
}

func (i *Input) Focus() tea.Cmd { return i.textInput.Focus() }
func (i *Input) Blur()          { i.textInput.Blur() }

func (i *Input) Value() string         { return i.textInput.Value() }
func (i *Input) SetValue(value string) { i.textInput.SetValue(value) }
func (i *Input) Mode() payload.Mode    { return i.mode }
func (i *Input) ToggleMode()           { i.setMode(i.mode.Toggle()) }

// Submit turns the current text into bytes, records it in history and clears
// the field. Nothing is recorded when the text does not parse.
func (i *Input) Submit() ([]byte, error) {
	text := i.textInput.Value()
	b, err := payload.Build(text, i.mode, i.lineEnding)
	if err != nil {
		return nil, err
	}
	i.addToHistory(text)
	i.textInput.SetValue("")
	return b, nil
}

func (i *Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return cmd
}

func (i *Input) View(insert bool) string {
	promptStyle := lipgloss.NewStyle().Bold(true).Foreground(colors.Green)
	symbol := ">"
	if i.mode == payload.Hex {
		promptStyle = promptStyle.Foreground(colors.Yellow)
		symbol = "#"
	}
	prompt := promptStyle.Render(symbol)

	var content string
	if insert {
		content = lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", i.textInput.View())
	} else {
		hint := lipgloss.NewStyle().Foreground(colors.Overlay0).Render("Press 'i' to enter insert mode")
		content = lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", hint)
	}

	// RoundedBorder and Padding(0, 1) take four columns
	style := styles.InputStyle.
		Width(max(i.width-4, 10)).
		AlignHorizontal(lipgloss.Left)
	if insert {
		style = style.BorderForeground(colors.Green)
	}
	return style.Render(content)
}

func (i *Input) addToHistory(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if n := len(i.history); n == 0 || i.history[n-1] != text {
		i.history = append(i.history, text)
		if len(i.history) > historyLimit {
			i.history = i.history[1:]
		}
	}
	i.historyIndex = -1
	i.pending = ""
}

func (i *Input) History() []string {
	return i.history
}

func (i *Input) HistoryUp() {
	if len(i.history) == 0 {
		return
	}
	if i.historyIndex == -1 {
		i.pending = i.textInput.Value()
		i.historyIndex = len(i.history) - 1
	} else if i.historyIndex > 0 {
		i.historyIndex--
	}
	i.textInput.SetValue(i.history[i.historyIndex])
}

func (i *Input) HistoryDown() {
	if i.historyIndex == -1 {
		return
	}
	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
		return
	}
	i.historyIndex = -1
	i.textInput.SetValue(i.pending)
	i.pending = ""
}
