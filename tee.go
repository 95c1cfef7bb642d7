package anyserial

import "go.uber.org/zap"

// AttachDebug makes sink the debug tee target, replacing any previous sink.
// A nil sink detaches the tee. A sink that is p itself, or that already
// mirrors into p through its own tee, is rejected with ErrDebugLoop.
func (p *Port) AttachDebug(sink *Port) error {
	for s := sink; s != nil; s = s.debugSink {
		if s == p {
			return ErrDebugLoop
		}
	}
	p.debugSink = sink
	if sink != nil {
		p.log.Debug("debug sink attached", zap.Stringer("sink", sink.Variant()))
	}
	return nil
}

// SetDebugEnabled turns mirroring on or off. With no sink attached, enabling
// has no visible effect.
func (p *Port) SetDebugEnabled(enabled bool) {
	p.debugEnabled = enabled
}

// IsDebugEnabled reports whether mirroring is on.
func (p *Port) IsDebugEnabled() bool {
	return p.debugEnabled
}

// DebugSink returns the attached sink, or nil.
func (p *Port) DebugSink() *Port {
	return p.debugSink
}

// mirror copies bytes that already crossed p to the sink. A failing sink never
// changes the outcome of the primary operation.
func (p *Port) mirror(b []byte) {
	if !p.debugEnabled || p.debugSink == nil {
		return
	}
	n, err := p.debugSink.Write(b)
	if err != nil || n < len(b) {
		p.log.Warn("debug tee dropped bytes",
			zap.Int("want", len(b)),
			zap.Int("wrote", n),
			zap.Error(err))
	}
}
