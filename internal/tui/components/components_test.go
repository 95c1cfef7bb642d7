package components

import (
	"errors"
	"testing"
	"time"

	"github.com/allbin/anyserial/internal/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)

func TestFormatFrame(t *testing.T) {
	rx := Frame{Timestamp: stamp, Dir: RX, Data: []byte("OK\r\n")}

	tests := []struct {
		name     string
		opts     FormatOptions
		contains []string
		absent   []string
	}{
		{
			name:     "defaults",
			opts:     DefaultFormatOptions(),
			contains: []string{"[09:26:53.589]", "RX", "HEX: 4F 4B 0D 0A", "ASCII: OK.."},
		},
		{
			name:     "no timestamps or indicators",
			opts:     FormatOptions{ShowHex: true},
			contains: []string{"HEX: 4F 4B 0D 0A"},
			absent:   []string{"09:26", "RX", "ASCII"},
		},
		{
			name:     "nothing selected shows count",
			opts:     FormatOptions{},
			contains: []string{"BYTES: 4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDataFormatter(tt.opts).FormatFrame(rx)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestFormatFrameTXError(t *testing.T) {
	df := NewDataFormatter(DefaultFormatOptions())
	got := df.FormatFrame(Frame{Timestamp: stamp, Dir: TX, Data: []byte("A"), Err: errors.New("not begun")})
	assert.Contains(t, got, "TX ✗")
	assert.Contains(t, got, "not begun")
}

func TestEventAlwaysShowsMarker(t *testing.T) {
	df := NewDataFormatter(FormatOptions{})
	got := df.FormatFrame(Frame{Dir: Event, Note: "receive overflow"})
	assert.Contains(t, got, "receive overflow")
	assert.Contains(t, got, "--")
}

func TestFormatterToggles(t *testing.T) {
	df := NewDataFormatter(DefaultFormatOptions())
	df.ToggleHex()
	df.ToggleASCII()
	df.ToggleTimestamps()
	df.ToggleIndicators()
	assert.Equal(t, FormatOptions{}, df.Options())

	df.SetFormatOptions(FormatOptions{ShowASCII: true})
	assert.Equal(t, "ASCII: hi", df.FormatFrame(Frame{Data: []byte("hi")}))
}

func TestTerminalKeepsRawFrames(t *testing.T) {
	term := NewTerminal(80, 5, DefaultFormatOptions())
	term.Add(Frame{Timestamp: stamp, Data: []byte("abc")})
	assert.Contains(t, term.View(), "ASCII: abc")

	term.ToggleASCII()
	assert.NotContains(t, term.View(), "ASCII: abc")
	assert.Contains(t, term.View(), "HEX: 61 62 63")

	term.Clear()
	assert.Empty(t, term.Frames())
}

func TestTerminalScrollbackBounded(t *testing.T) {
	term := NewTerminal(80, 5, FormatOptions{})
	for i := 0; i < MaxFrames+10; i++ {
		term.Add(Frame{Data: []byte{byte(i)}})
	}
	assert.Len(t, term.Frames(), MaxFrames)
	assert.True(t, term.Following())

	term.GotoTop()
	assert.False(t, term.Following())
	term.GotoBottom()
	assert.True(t, term.Following())
}

func TestInputSubmit(t *testing.T) {
	in := NewInput(payload.ASCII, "\r\n")
	in.SetValue("AT")

	b, err := in.Submit()
	require.NoError(t, err)
	assert.Equal(t, []byte("AT\r\n"), b)
	assert.Empty(t, in.Value())
	assert.Equal(t, []string{"AT"}, in.History())

	in.ToggleMode()
	in.SetValue("4")
	_, err = in.Submit()
	assert.ErrorIs(t, err, payload.ErrOddHex)
	assert.Equal(t, "4", in.Value(), "failed submit keeps the text")
	assert.Len(t, in.History(), 1)
}

func TestInputHistory(t *testing.T) {
	in := NewInput(payload.ASCII, "")
	for _, s := range []string{"one", "two", "two", "three"} {
		in.SetValue(s)
		_, err := in.Submit()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"one", "two", "three"}, in.History())

	in.SetValue("draft")
	in.HistoryUp()
	assert.Equal(t, "three", in.Value())
	in.HistoryUp()
	in.HistoryUp()
	in.HistoryUp()
	assert.Equal(t, "one", in.Value())
	in.HistoryDown()
	assert.Equal(t, "two", in.Value())
	in.HistoryDown()
	in.HistoryDown()
	assert.Equal(t, "draft", in.Value())
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar("/dev/ttyACM0", ConnectionInfo{
		Variant:     "usb",
		Baud:        115200,
		TeeAttached: true,
		TeeEnabled:  true,
	})
	sb.SetWidth(120)
	sb.AddOverflow()

	view := sb.View("NORMAL", "ASCII", true, "12:00:00")
	assert.Contains(t, view, "NORMAL")
	assert.Contains(t, view, "/dev/ttyACM0")
	assert.Contains(t, view, "usb 115200 baud")
	assert.Contains(t, view, "tee:on")
	assert.Contains(t, view, "ovf:1")
	assert.Contains(t, view, "●")

	sb.SetStatus("failed", errors.New("boom"))
	view = sb.View("INSERT", "HEX", false, "12:00:01")
	assert.Contains(t, view, "✗")
	assert.Contains(t, view, "[HEX] Tab to toggle")
}
