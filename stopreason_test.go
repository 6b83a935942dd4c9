package gdbstub

import "testing"

func formatStop(t *testing.T, r StopReason, multiprocess bool) string {
	t.Helper()
	buf := NewPacketBuffer(256)
	w := NewResponseWriter(buf)
	if err := r.Format(w, multiprocess); err != nil {
		t.Fatalf("Format: %v", err)
	}
	return string(w.Bytes())
}

func TestStopReasonSignal(t *testing.T) {
	r := StopReason{Kind: StopSignal, Tid: ThreadID{Pid: 1, Tid: 1}, Signal: SIGTRAP}
	got := formatStop(t, r, false)
	if got != "T05thread:01;" {
		t.Fatalf("Format() = %q, want %q", got, "T05thread:01;")
	}
}

func TestStopReasonSWBreakDefaultsToTrap(t *testing.T) {
	r := StopReason{Kind: StopSWBreak, Tid: ThreadID{Pid: 1, Tid: 1}}
	got := formatStop(t, r, false)
	want := "T05thread:01;swbreak:;"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestStopReasonWatchpoint(t *testing.T) {
	r := StopReason{Kind: StopWatchpoint, Tid: ThreadID{Pid: 1, Tid: 1}, Addr: 0x2000, Watch: WatchRead}
	got := formatStop(t, r, false)
	want := "T05thread:01;rwatch:2000;"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestStopReasonExited(t *testing.T) {
	r := StopReason{Kind: StopExited, ExitStatus: 7}
	if got := formatStop(t, r, false); got != "W07" {
		t.Fatalf("Format() = %q, want %q", got, "W07")
	}
}

func TestStopReasonMultiprocessThread(t *testing.T) {
	r := StopReason{Kind: StopSignal, Tid: ThreadID{Pid: 4, Tid: 9}, Signal: SIGINT}
	got := formatStop(t, r, true)
	want := "T02thread:p04.09;"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}
