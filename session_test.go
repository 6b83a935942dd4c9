package gdbstub

import (
	"bytes"
	"testing"
)

// memTransport is an in-memory Transport double: writes accumulate in
// Sent, and Flush is a no-op since there is no underlying buffering.
type memTransport struct {
	Sent bytes.Buffer
}

func (m *memTransport) Write(p []byte) (int, error) { return m.Sent.Write(p) }
func (m *memTransport) Flush() error                { return nil }

// takeReply extracts and clears the bytes most recently written to the
// transport, for asserting against one reply at a time.
func (m *memTransport) takeReply() string {
	s := m.Sent.String()
	m.Sent.Reset()
	return s
}

func feedPacket(t *testing.T, s *Session, payload string) {
	t.Helper()
	wire := "$" + payload + "#" + Checksum([]byte(payload))
	if err := s.PumpBytes([]byte(wire)); err != nil {
		t.Fatalf("PumpBytes(%q): %v", wire, err)
	}
}

func TestSessionHandshake(t *testing.T) {
	target := newFakeTarget()
	tr := &memTransport{}
	s := NewSession(target, tr, 4096)

	feedPacket(t, s, "qSupported:multiprocess+")
	reply := tr.takeReply()
	if reply[0] != '+' {
		t.Fatalf("reply = %q, want leading ack", reply)
	}
	if s.State() != StateIdle {
		t.Fatalf("state = %v, want StateIdle", s.State())
	}
}

func TestSessionNoAckMode(t *testing.T) {
	target := newFakeTarget()
	tr := &memTransport{}
	s := NewSession(target, tr, 4096)

	feedPacket(t, s, "QStartNoAckMode")
	reply := tr.takeReply()
	if reply[0] != '+' {
		t.Fatalf("reply = %q, want leading ack before no-ack takes effect", reply)
	}

	// With ack mode off, no leading '+' should be sent for the next reply.
	wire := "m0,4"
	full := "$" + wire + "#" + Checksum([]byte(wire))
	if err := s.PumpBytes([]byte(full)); err != nil {
		t.Fatalf("PumpBytes: %v", err)
	}
	reply = tr.takeReply()
	if len(reply) == 0 || reply[0] == '+' {
		t.Fatalf("reply = %q, want no leading ack in no-ack mode", reply)
	}
}

func TestSessionResumeAndReportStop(t *testing.T) {
	target := newFakeTarget()
	tr := &memTransport{}
	s := NewSession(target, tr, 4096)

	feedPacket(t, s, "vCont;c")
	tr.takeReply() // ack
	if s.State() != StateRunning {
		t.Fatalf("state = %v, want StateRunning after vCont;c", s.State())
	}

	if err := s.ReportStop(StopReason{Kind: StopSignal, Tid: ThreadID{Pid: 1, Tid: 1}, Signal: SIGTRAP}); err != nil {
		t.Fatalf("ReportStop: %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("state = %v, want StateIdle after stop", s.State())
	}
	reply := tr.takeReply()
	if !bytes.Contains([]byte(reply), []byte("T05thread:01;")) {
		t.Fatalf("reply = %q, want a T05thread:01; stop reply", reply)
	}
}

func TestSessionReportStopExitedDisconnects(t *testing.T) {
	target := newFakeTarget()
	tr := &memTransport{}
	s := NewSession(target, tr, 4096)

	feedPacket(t, s, "vCont;c")
	tr.takeReply()

	if err := s.ReportStop(StopReason{Kind: StopExited, ExitStatus: 0}); err != nil {
		t.Fatalf("ReportStop: %v", err)
	}
	if s.State() != StateDisconnected {
		t.Fatalf("state = %v, want StateDisconnected", s.State())
	}
	d := s.Disconnected()
	if d == nil || d.Kind != DisconnectTargetExited {
		t.Fatalf("Disconnected() = %+v, want DisconnectTargetExited", d)
	}
}

func TestSessionDetachDisconnects(t *testing.T) {
	target := newFakeTarget()
	tr := &memTransport{}
	s := NewSession(target, tr, 4096)

	feedPacket(t, s, "D")
	tr.takeReply()
	if s.State() != StateDisconnected {
		t.Fatalf("state = %v, want StateDisconnected after detach", s.State())
	}
	if d := s.Disconnected(); d == nil || d.Kind != DisconnectClient {
		t.Fatalf("Disconnected() = %+v, want DisconnectClient", d)
	}
}

func TestSessionMalformedPacketIgnored(t *testing.T) {
	target := newFakeTarget()
	tr := &memTransport{}
	s := NewSession(target, tr, 4096)

	// A packet with a deliberately wrong checksum should be nacked, not
	// crash the session or advance its state incorrectly.
	if err := s.PumpBytes([]byte("$g#00")); err != nil {
		t.Fatalf("PumpBytes: %v", err)
	}
	reply := tr.takeReply()
	if reply != "-" {
		t.Fatalf("reply = %q, want nack", reply)
	}
	if s.State() != StatePreHandshake {
		t.Fatalf("state = %v, want StatePreHandshake unchanged", s.State())
	}
}
