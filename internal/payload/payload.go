// Package payload turns user-typed text into the bytes written to a port.
package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOddHex is returned when a hex string does not split into whole bytes.
var ErrOddHex = errors.New("hex string must have even length")

// Mode selects how typed text is interpreted.
type Mode int

const (
	ASCII Mode = iota
	Hex
)

func (m Mode) String() string {
	if m == Hex {
		return "HEX"
	}
	return "ASCII"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Hex {
		return ASCII
	}
	return Hex
}

// ParseHex decodes "48656c6c6f", "48 65 6C 6C 6F" and "0x48 0x65" alike.
func ParseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", "\t", "", "0x", "", "0X", "", ":", "").Replace(s)
	if len(s)%2 != 0 {
		return nil, ErrOddHex
	}

	out := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		b, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte '%s'", s[i:i+2])
		}
		out = append(out, byte(b))
	}
	return out, nil
}

// Build converts text according to mode. The line ending is appended in
// ASCII mode only; hex input already says exactly what to send.
func Build(text string, mode Mode, lineEnding string) ([]byte, error) {
	if mode == Hex {
		return ParseHex(text)
	}
	return []byte(text + lineEnding), nil
}

// LineEnding maps a flag value (none, lf, cr, crlf) to its bytes.
func LineEnding(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return "", nil
	case "lf", "nl":
		return "\n", nil
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", fmt.Errorf("unknown line ending %q (use none, lf, cr or crlf)", name)
}

// Printable replaces everything outside printable ASCII with repl.
func Printable(b []byte, repl rune) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c >= 32 && c <= 126 {
			sb.WriteByte(c)
		} else {
			sb.WriteRune(repl)
		}
	}
	return sb.String()
}
