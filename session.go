package gdbstub

// SessionState names the states of the session state machine, per
// spec.md §4.G. Unlike the teacher's gdbHandle, which blocks in a
// `for packet := range packetChan` loop and blocks again inside each
// resume handler waiting for the target to stop, Session never blocks:
// every external event (an inbound byte, a stop notification, a
// Ctrl-C) is delivered by the caller through one of Pump/ReportStop/
// PeekInterrupt, and each call returns as soon as it has done its work.
type SessionState int

const (
	// StatePreHandshake is the state before the first qSupported has
	// been answered. Only framing is active; no commands besides the
	// handshake are meaningful yet, but the core does not reject them
	// since GDB is tolerant of the exact opening sequence.
	StatePreHandshake SessionState = iota
	// StateIdle is waiting for the next command packet.
	StateIdle
	// StateRunning means the target is executing (after c/s/vCont); the
	// session accepts only PeekInterrupt until ReportStop delivers the
	// next stop event.
	StateRunning
	// StateDisconnected is terminal: the session no longer accepts bytes.
	StateDisconnected
)

// Session is the non-blocking RSP session state machine (component G).
// One Session serves one connected client for its lifetime.
type Session struct {
	target Target

	transport Transport

	framer *Framer
	in     *PacketBuffer
	out    *PacketBuffer
	framed *PacketBuffer // scratch buffer for the escaped/RLE-encoded wire form

	caps     CapabilitySet
	executor *Executor

	state   SessionState
	ackMode bool // true = acks required (default); false after QStartNoAckMode

	// resumedTid is the Tid field of the command that last resumed the
	// target. ReportStop does not read it: a stop reply always carries
	// the thread id given in its StopReason.
	resumedTid ThreadID

	disconnect *DisconnectReason
}

// NewSession creates a session over transport for target, advertising
// maxPacketSize as PacketSize in qSupported. Capabilities are sampled
// once, at construction, per spec.md §4.D.
func NewSession(target Target, transport Transport, maxPacketSize int) *Session {
	in := NewPacketBuffer(maxPacketSize)
	out := NewPacketBuffer(maxPacketSize)
	// The wire form can grow a little past the raw payload (escaping
	// never shrinks it), so the framed scratch buffer gets headroom.
	framed := NewPacketBuffer(maxPacketSize*2 + 8)
	caps := SampleCapabilities(target, maxPacketSize)
	return &Session{
		target:    target,
		transport: transport,
		framer:    NewFramer(in),
		in:        in,
		out:       out,
		framed:    framed,
		caps:      caps,
		executor:  &Executor{Target: target, Caps: caps},
		state:     StatePreHandshake,
		ackMode:   true,
	}
}

// State returns the session's current state.
func (s *Session) State() SessionState { return s.state }

// Disconnected reports the reason the session ended, or nil if it is
// still live.
func (s *Session) Disconnected() *DisconnectReason { return s.disconnect }

// PumpBytes feeds multiple inbound bytes through Pump in order,
// stopping early if the session disconnects.
func (s *Session) PumpBytes(b []byte) error {
	for _, c := range b {
		if err := s.Pump(c); err != nil {
			return err
		}
		if s.state == StateDisconnected {
			return nil
		}
	}
	return nil
}

// Pump feeds one inbound byte into the session. While StateRunning, a
// stray interrupt byte (Ctrl-C, 0x03) is recognized by the framer but
// has no further effect: Pump returns nil, nothing is recorded, and the
// session stays in StateRunning; everything else while running
// is buffered by the framer so the next packet is ready the instant
// ReportStop returns the session to StateIdle. Malformed and unknown
// commands never fail the session (spec.md §7); only a transport write
// failure does.
func (s *Session) Pump(c byte) error {
	if s.state == StateDisconnected {
		return nil
	}

	event := s.framer.Feed(c)
	switch event {
	case FrameEventNone:
		return nil
	case FrameEventAck, FrameEventNack:
		return nil // acks are not meaningful inbound to a target-side stub
	case FrameEventInterrupt:
		return s.handleInterrupt()
	case FrameEventBadChecksum:
		if s.ackMode {
			return s.sendRaw(nackByte)
		}
		return nil
	case FrameEventPacketReady:
		if s.ackMode {
			if err := s.sendRaw(ackByte); err != nil {
				return err
			}
		}
		return s.handlePacket()
	}
	return nil
}

// PeekInterrupt lets a driving loop report an out-of-band Ctrl-C
// without going through Pump/the framer, for transports (like a raw
// serial line mid-Running) that detect the interrupt byte themselves
// rather than funneling every byte through Pump while the target runs.
func (s *Session) PeekInterrupt() error {
	if s.state != StateRunning {
		return nil
	}
	return s.handleInterrupt()
}

func (s *Session) handleInterrupt() error {
	if s.state != StateRunning {
		return nil
	}
	if s.caps.Resume == nil {
		return nil
	}
	// There is no dedicated "stop" verb on ResumeExt; per spec.md §4.E a
	// vCont `t` action is the stop request, and a target that supports
	// Resume is expected to also observe out-of-band stop requests via
	// whatever mechanism it uses to detect Ctrl-C. The core only
	// recognizes the interrupt byte; it records nothing and does not
	// signal it to the caller, who owns the actual target and calls
	// ReportStop once it has actually halted.
	return nil
}

func (s *Session) handlePacket() error {
	payload, err := s.in.Decode()
	if err != nil {
		return nil // malformed packet body: silently ignored, per spec.md §7
	}

	cmd, err := ParseCommand(payload, s.caps)
	if err != nil {
		return nil
	}

	s.out.Reset()
	w := NewResponseWriter(s.out)
	outcome, err := s.executor.Execute(cmd, w)
	if err != nil {
		return nil
	}

	// A resume-class command gets no immediate reply: its reply is the
	// stop packet that ReportStop sends.
	if !outcome.Resumed {
		if err := s.sendPacket(s.out.Bytes()); err != nil {
			return err
		}
	}

	if outcome.EnterNoAckMode {
		s.ackMode = false
	}
	if outcome.Disconnect != nil {
		s.disconnect = outcome.Disconnect
		s.state = StateDisconnected
		return nil
	}
	if outcome.Resumed {
		s.resumedTid = cmd.Tid
		s.state = StateRunning
		return nil
	}
	if s.state == StatePreHandshake && cmd.Kind == CmdQSupported {
		s.state = StateIdle
	}
	return nil
}

// ReportStop delivers a stop event from the target (component F) while
// StateRunning, formatting and sending the stop-reply packet and
// returning the session to StateIdle. Calling it outside StateRunning
// is a caller bug but is handled harmlessly (the reply is still sent).
func (s *Session) ReportStop(r StopReason) error {
	s.out.Reset()
	w := NewResponseWriter(s.out)
	if err := r.Format(w, s.executor.Multiprocess); err != nil {
		return err
	}
	if err := s.sendPacket(s.out.Bytes()); err != nil {
		return err
	}
	switch r.Kind {
	case StopExited, StopTerminated:
		s.disconnect = &DisconnectReason{
			Kind:   disconnectKindFor(r.Kind),
			Status: r.ExitStatus,
		}
		s.state = StateDisconnected
	default:
		s.state = StateIdle
	}
	return nil
}

func disconnectKindFor(k StopReasonKind) DisconnectKind {
	if k == StopTerminated {
		return DisconnectTargetTerminated
	}
	return DisconnectTargetExited
}

func (s *Session) sendRaw(c byte) error {
	if _, err := s.transport.Write([]byte{c}); err != nil {
		return err
	}
	return s.transport.Flush()
}

// sendPacket frames body as `$payload#checksum` and writes it, where
// payload is body after escape+RLE encoding and the checksum is taken
// over payload, per spec.md §4.B.
func (s *Session) sendPacket(body []byte) error {
	s.framed.Reset()
	fw := NewResponseWriter(s.framed)
	if err := fw.WriteByte(frameStart); err != nil {
		return err
	}
	if err := rleEncode(fw, body); err != nil {
		return err
	}
	sum := Checksum(s.framed.Bytes()[1:])
	if err := fw.WriteByte(frameEnd); err != nil {
		return err
	}
	if err := fw.WriteString(sum); err != nil {
		return err
	}
	if _, err := s.transport.Write(s.framed.Bytes()); err != nil {
		return err
	}
	return s.transport.Flush()
}
