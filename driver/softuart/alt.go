package softuart

import "io"

// Alt emulates an AltSoftSerial instance. It owns the Timer's alt slot and
// receives whenever it is begun.
type Alt struct {
	channel
	timer *Timer
}

// NewAlt claims the Timer's alt slot. A second claim fails with ErrAltInUse
// until the first instance is released.
func (t *Timer) NewAlt(tx io.Writer, opts ...Option) (*Alt, error) {
	config, err := buildConfig(AltBufferSize, opts)
	if err != nil {
		return nil, err
	}
	a := &Alt{timer: t}
	a.setup(config, tx)
	if err := t.claimAlt(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Release ends a and frees the alt slot.
func (a *Alt) Release() {
	a.End()
	a.timer.releaseAlt(a)
}

func (a *Alt) Begin(baud int) error {
	return a.begin(baud)
}

func (a *Alt) End() error {
	a.begun.Store(false)
	return nil
}

func (a *Alt) Overflow() bool {
	return a.rx.Overflow()
}

func (a *Alt) ReadByte() (byte, error) {
	return a.pop()
}

func (a *Alt) PeekByte() (byte, error) {
	return a.peek()
}

func (a *Alt) Buffered() int {
	return a.rx.Len()
}

func (a *Alt) Write(p []byte) (int, error) {
	return a.transmit(p)
}

// FlushInput discards everything received but not yet read.
func (a *Alt) FlushInput() error {
	a.rx.Reset()
	return nil
}

// FlushOutput flushes the transmit line if it buffers.
func (a *Alt) FlushOutput() error {
	return a.drainTX()
}

func (a *Alt) ReadUntil(delim byte, buf []byte) int {
	return a.readUntil(delim, buf)
}

// Receive puts bytes on the RX pin and returns how many were buffered.
func (a *Alt) Receive(p []byte) int {
	if !a.begun.Load() {
		return 0
	}
	return a.rx.Push(p...)
}
