package softuart

import (
	"io"
	"sync/atomic"
)

// Receiver takes bytes off a wire.
type Receiver interface {
	Receive(p []byte) int
}

// Endpoint is anything that can sit at one end of a Line.
type Endpoint interface {
	Receiver
	SetTX(w io.Writer)
}

var (
	_ Endpoint = (*Software)(nil)
	_ Endpoint = (*Alt)(nil)
)

// Line is a wire into a Receiver. Writes always succeed: bytes the receiver
// cannot take are lost, as on a real wire, and counted.
type Line struct {
	to      Receiver
	dropped atomic.Int64
}

func NewLine(to Receiver) *Line {
	return &Line{to: to}
}

func (l *Line) Write(p []byte) (int, error) {
	n := l.to.Receive(p)
	l.dropped.Add(int64(len(p) - n))
	return len(p), nil
}

// Dropped returns how many bytes the receiver did not take.
func (l *Line) Dropped() int {
	return int(l.dropped.Load())
}

// Connect wires a and b as a null modem and returns the a-to-b and b-to-a
// lines.
func Connect(a, b Endpoint) (ab, ba *Line) {
	ab, ba = NewLine(b), NewLine(a)
	a.SetTX(ab)
	b.SetTX(ba)
	return ab, ba
}
