package softuart

import "io"

// Software emulates a SoftwareSerial instance. Only the Timer's listener
// receives; Begin makes the instance the listener.
type Software struct {
	channel
	timer *Timer
}

// NewSoftware returns an instance transmitting into tx.
func (t *Timer) NewSoftware(tx io.Writer, opts ...Option) (*Software, error) {
	config, err := buildConfig(SoftwareBufferSize, opts)
	if err != nil {
		return nil, err
	}
	s := &Software{timer: t}
	s.setup(config, tx)
	return s, nil
}

func (s *Software) Begin(baud int) error {
	if err := s.begin(baud); err != nil {
		return err
	}
	s.Listen()
	return nil
}

func (s *Software) End() error {
	s.begun.Store(false)
	s.timer.release(s)
	return nil
}

// Listen makes s the Timer's receiver. It returns true only when s took over;
// an instance that already listens, or was never begun, gets false. Taking
// over empties the receive buffer and clears the overflow flag.
func (s *Software) Listen() bool {
	if !s.begun.Load() {
		return false
	}
	if !s.timer.take(s) {
		return false
	}
	s.rx.Reset()
	s.rx.Overflow()
	return true
}

// StopListening gives up the receiver. It reports whether s was listening.
func (s *Software) StopListening() bool {
	return s.timer.release(s)
}

func (s *Software) IsListening() bool {
	return s.timer.listening(s)
}

// Overflow reports whether a byte was dropped on a full buffer since the last
// call, and clears the flag.
func (s *Software) Overflow() bool {
	return s.rx.Overflow()
}

func (s *Software) ReadByte() (byte, error) {
	if !s.IsListening() {
		return 0, ErrNotListening
	}
	return s.pop()
}

func (s *Software) PeekByte() (byte, error) {
	if !s.IsListening() {
		return 0, ErrNotListening
	}
	return s.peek()
}

func (s *Software) Buffered() int {
	if !s.IsListening() {
		return 0
	}
	return s.rx.Len()
}

func (s *Software) Write(p []byte) (int, error) {
	return s.transmit(p)
}

func (s *Software) ReadUntil(delim byte, buf []byte) int {
	if !s.IsListening() {
		return 0
	}
	return s.readUntil(delim, buf)
}

// Receive puts bytes on the instance's RX pin and returns how many were
// buffered. Nothing is received unless s is begun and listening.
func (s *Software) Receive(p []byte) int {
	if !s.begun.Load() || !s.IsListening() {
		return 0
	}
	return s.rx.Push(p...)
}
