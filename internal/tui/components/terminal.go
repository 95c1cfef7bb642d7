package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxFrames bounds the scrollback kept by a Terminal.
const MaxFrames = 2000

// Terminal is a scrolling view over received and sent frames. Frames are kept
// raw so that a change of format options re-renders the whole history.
type Terminal struct {
	viewport  viewport.Model
	formatter *DataFormatter
	frames    []Frame
	follow    bool
}

func NewTerminal(width, height int, opts FormatOptions) *Terminal {
	return &Terminal{
		viewport:  viewport.New(width, height),
		formatter: NewDataFormatter(opts),
		follow:    true,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

func (t *Terminal) Add(f Frame) {
	t.frames = append(t.frames, f)
	if len(t.frames) > MaxFrames {
		t.frames = t.frames[len(t.frames)-MaxFrames:]
	}
	t.refresh()
}

func (t *Terminal) Frames() []Frame {
	return t.frames
}

func (t *Terminal) Clear() {
	t.frames = nil
	t.viewport.SetContent("")
}

func (t *Terminal) Options() FormatOptions {
	return t.formatter.Options()
}

func (t *Terminal) ToggleHex()        { t.formatter.ToggleHex(); t.refresh() }
func (t *Terminal) ToggleASCII()      { t.formatter.ToggleASCII(); t.refresh() }
func (t *Terminal) ToggleTimestamps() { t.formatter.ToggleTimestamps(); t.refresh() }
func (t *Terminal) ToggleIndicators() { t.formatter.ToggleIndicators(); t.refresh() }

// ScrollUp leaves follow mode; GotoBottom re-enters it.
func (t *Terminal) ScrollUp() {
	t.follow = false
	t.viewport.LineUp(1)
}

func (t *Terminal) ScrollDown() {
	t.viewport.LineDown(1)
	if t.viewport.AtBottom() {
		t.follow = true
	}
}

func (t *Terminal) GotoTop() {
	t.follow = false
	t.viewport.GotoTop()
}

func (t *Terminal) GotoBottom() {
	t.follow = true
	t.viewport.GotoBottom()
}

func (t *Terminal) Following() bool {
	return t.follow
}

func (t *Terminal) refresh() {
	t.viewport.SetContent(strings.Join(t.formatter.FormatFrames(t.frames), "\n"))
	if t.follow {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	// Key messages stay with the model so the viewport doesn't eat bindings
	if _, ok := msg.(tea.WindowSizeMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
