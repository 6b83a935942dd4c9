package gdbstub

import (
	"strings"
	"testing"
)

// fakeTarget is a minimal Base implementation used across the test
// files in this package to exercise capability sampling and execution
// without depending on a real target.
type fakeTarget struct {
	threads []ThreadID
	regs    []byte
	mem     []byte

	breakpoints map[uint64]bool
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		threads:     []ThreadID{{Pid: 1, Tid: 1}},
		regs:        make([]byte, 16),
		mem:         make([]byte, 4096),
		breakpoints: make(map[uint64]bool),
	}
}

func (f *fakeTarget) PointerWidth() int { return 4 }
func (f *fakeTarget) BigEndian() bool   { return false }
func (f *fakeTarget) Threads() []ThreadID { return f.threads }

func (f *fakeTarget) ReadRegisters(tid ThreadID) ([]byte, error) {
	out := make([]byte, len(f.regs))
	copy(out, f.regs)
	return out, nil
}

func (f *fakeTarget) WriteRegisters(tid ThreadID, data []byte) error {
	if len(data) != len(f.regs) {
		return ErrMalformedPacket
	}
	copy(f.regs, data)
	return nil
}

func (f *fakeTarget) ReadMemory(addr uint64, dst []byte) (int, error) {
	if addr >= uint64(len(f.mem)) {
		return 0, ErrMalformedPacket
	}
	return copy(dst, f.mem[addr:]), nil
}

func (f *fakeTarget) WriteMemory(addr uint64, data []byte) error {
	if addr+uint64(len(data)) > uint64(len(f.mem)) {
		return ErrMalformedPacket
	}
	copy(f.mem[addr:], data)
	return nil
}

func (f *fakeTarget) HaltReason(tid ThreadID) (StopReason, error) {
	return StopReason{Kind: StopSignal, Tid: tid, Signal: SIGTRAP}, nil
}

// ResumeExt
func (f *fakeTarget) Continue(tid ThreadID, sig *Signal) error { return nil }
func (f *fakeTarget) Step(tid ThreadID, sig *Signal) error     { return nil }

// BreakpointExt
func (f *fakeTarget) AddSWBreakpoint(addr, kind uint64) error {
	f.breakpoints[addr] = true
	return nil
}
func (f *fakeTarget) RemoveSWBreakpoint(addr, kind uint64) error {
	delete(f.breakpoints, addr)
	return nil
}
func (f *fakeTarget) AddHWBreakpoint(addr, kind uint64) error    { return f.AddSWBreakpoint(addr, kind) }
func (f *fakeTarget) RemoveHWBreakpoint(addr, kind uint64) error { return f.RemoveSWBreakpoint(addr, kind) }

func TestSampleCapabilitiesDetectsResumeAndBreakpoint(t *testing.T) {
	target := newFakeTarget()
	caps := SampleCapabilities(target, 4096)
	if caps.Resume == nil {
		t.Fatal("Resume capability not detected")
	}
	if caps.Breakpoint == nil {
		t.Fatal("Breakpoint capability not detected")
	}
	if caps.Watchpoint != nil {
		t.Fatal("Watchpoint capability should not be detected on fakeTarget")
	}
}

func TestQSupportedStringContainsPacketSize(t *testing.T) {
	target := newFakeTarget()
	caps := SampleCapabilities(target, 4096)
	s := caps.QSupportedString(true)
	if !strings.Contains(s, "PacketSize=1000") {
		t.Fatalf("QSupportedString() = %q, missing PacketSize=1000", s)
	}
	if !strings.Contains(s, "multiprocess+") {
		t.Fatalf("QSupportedString() = %q, missing multiprocess+", s)
	}
	if !strings.Contains(s, "vContSupported+") {
		t.Fatalf("QSupportedString() = %q, missing vContSupported+", s)
	}
}

func TestVContActionsEmptyWithoutResume(t *testing.T) {
	var caps CapabilitySet
	if got := caps.VContActions(); got != "" {
		t.Fatalf("VContActions() = %q, want empty", got)
	}
}
