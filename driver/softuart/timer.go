package softuart

import "sync"

// Timer is the resource shared by the instances created from it.
type Timer struct {
	mu     sync.Mutex
	active *Software
	alt    *Alt
}

func NewTimer() *Timer {
	return &Timer{}
}

// Listener returns the Software instance currently receiving, or nil.
func (t *Timer) Listener() *Software {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// take makes s the listener and reports whether that changed anything.
func (t *Timer) take(s *Software) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == s {
		return false
	}
	t.active = s
	return true
}

// release stops s listening if it is the listener.
func (t *Timer) release(s *Software) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != s {
		return false
	}
	t.active = nil
	return true
}

func (t *Timer) listening(s *Software) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active == s
}

func (t *Timer) claimAlt(a *Alt) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.alt != nil {
		return ErrAltInUse
	}
	t.alt = a
	return nil
}

func (t *Timer) releaseAlt(a *Alt) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.alt == a {
		t.alt = nil
	}
}
