package models

import (
	"io"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/internal/tui/components"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	if m == InputModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// SerialModel is the port-facing half of a TUI. A Port is not safe for
// concurrent use, so every method here must be called from the bubbletea
// Update loop and nowhere else.
type SerialModel struct {
	port     *anyserial.Port
	portPath string
	baud     int

	inputMode InputMode
	rxBytes   int
	txBytes   int
	err       error
}

func NewSerialModel(port *anyserial.Port, portPath string, baud int) *SerialModel {
	return &SerialModel{
		port:     port,
		portPath: portPath,
		baud:     baud,
	}
}

func (m *SerialModel) Port() *anyserial.Port { return m.port }
func (m *SerialModel) PortPath() string      { return m.portPath }
func (m *SerialModel) Baud() int             { return m.baud }
func (m *SerialModel) Err() error            { return m.err }
func (m *SerialModel) SetError(err error)    { m.err = err }

// Counters returns the bytes read and written so far.
func (m *SerialModel) Counters() (rx, tx int) {
	return m.rxBytes, m.txBytes
}

func (m *SerialModel) InputMode() InputMode {
	return m.inputMode
}

func (m *SerialModel) SetInputMode(mode InputMode) {
	m.inputMode = mode
}

func (m *SerialModel) IsInInsertMode() bool {
	return m.inputMode == InputModeInsert
}

// Poll reads at most limit buffered bytes. It returns nil when nothing is
// waiting.
func (m *SerialModel) Poll(limit int) []byte {
	var out []byte
	for len(out) < limit {
		c := m.port.Read()
		if c == anyserial.NoData {
			break
		}
		out = append(out, byte(c))
	}
	m.rxBytes += len(out)
	return out
}

// Send writes b and returns the frame to show for it.
func (m *SerialModel) Send(b []byte) components.Frame {
	n, err := m.port.Write(b)
	m.txBytes += n
	f := components.Frame{Dir: components.TX, Data: b[:n], Err: err}
	if err == nil && n < len(b) {
		f.Err = io.ErrShortWrite
	}
	return f
}

// Overflow reports and clears a receive overflow on the port.
func (m *SerialModel) Overflow() bool {
	return m.port.Overflow()
}

func (m *SerialModel) Connected() bool {
	return m.port.Connected()
}

// ToggleTee flips the debug tee and returns the new state. It is a no-op
// without an attached sink.
func (m *SerialModel) ToggleTee() bool {
	if m.port.DebugSink() == nil {
		return false
	}
	m.port.SetDebugEnabled(!m.port.IsDebugEnabled())
	return m.port.IsDebugEnabled()
}

// Listen asks for the shared receiver. The result is what the port reports;
// variants without arbitration always succeed.
func (m *SerialModel) Listen() bool {
	return m.port.Listen()
}

func (m *SerialModel) FlushInput() error {
	return m.port.FlushInput()
}

func (m *SerialModel) ConnectionInfo() components.ConnectionInfo {
	return components.ConnectionInfo{
		Variant:      m.port.Variant().String(),
		Baud:         m.baud,
		Capabilities: m.port.Capabilities().String(),
		TeeEnabled:   m.port.IsDebugEnabled(),
		TeeAttached:  m.port.DebugSink() != nil,
		Listening:    m.port.IsListening(),
		ShowListen:   m.port.Supports(anyserial.CapListen),
	}
}

// Close ends the port once.
func (m *SerialModel) Close() error {
	return m.port.Close()
}
