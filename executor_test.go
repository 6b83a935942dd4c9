package gdbstub

import "testing"

func newTestExecutor(target *fakeTarget) *Executor {
	caps := SampleCapabilities(target, 4096)
	return &Executor{Target: target, Caps: caps, Multiprocess: true}
}

func execCmd(t *testing.T, e *Executor, cmd Command) (ExecOutcome, string) {
	t.Helper()
	buf := NewPacketBuffer(256)
	w := NewResponseWriter(buf)
	outcome, err := e.Execute(cmd, w)
	if err != nil {
		t.Fatalf("Execute(%+v): %v", cmd, err)
	}
	return outcome, string(w.Bytes())
}

func TestExecuteHaltReason(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	_, reply := execCmd(t, e, Command{Kind: CmdHaltReason})
	if reply != "T05thread:p01.01;" {
		t.Fatalf("reply = %q, want %q", reply, "T05thread:p01.01;")
	}
}

func TestExecuteReadWriteMemory(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	_, reply := execCmd(t, e, Command{Kind: CmdWriteMemory, Addr: 0x10, Data: []byte("deadbeef")})
	if reply != "OK" {
		t.Fatalf("write reply = %q, want OK", reply)
	}
	_, reply = execCmd(t, e, Command{Kind: CmdReadMemory, Addr: 0x10, Length: 4})
	if reply != "deadbeef" {
		t.Fatalf("read reply = %q, want %q", reply, "deadbeef")
	}
}

func TestExecuteWriteRegisterWrongLengthRejected(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	_, reply := execCmd(t, e, Command{Kind: CmdWriteRegisters, Data: []byte("aa")})
	if reply[0] != 'E' {
		t.Fatalf("reply = %q, want an E-prefixed error", reply)
	}
}

func TestExecuteContinueSetsResumed(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	outcome, _ := execCmd(t, e, Command{Kind: CmdContinue})
	if !outcome.Resumed {
		t.Fatal("CmdContinue outcome.Resumed = false, want true")
	}
}

func TestExecuteVContContinueAnyThreadResumes(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	cmd := Command{
		Kind: CmdVCont,
		VContActions: []VContAction{
			{Action: 'c', Tid: ThreadID{Pid: 0, Tid: 0}},
		},
	}
	outcome, _ := execCmd(t, e, cmd)
	if !outcome.Resumed {
		t.Fatal("vCont outcome.Resumed = false, want true")
	}
}

func TestExecuteSetAndRemoveBreakpoint(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	_, reply := execCmd(t, e, Command{Kind: CmdAddBreakpoint, Addr: 0x100, BreakpointKind: 0, Length: 2})
	if reply != "OK" {
		t.Fatalf("add breakpoint reply = %q, want OK", reply)
	}
	_, reply = execCmd(t, e, Command{Kind: CmdRemoveBreakpoint, Addr: 0x100, BreakpointKind: 0, Length: 2})
	if reply != "OK" {
		t.Fatalf("remove breakpoint reply = %q, want OK", reply)
	}
}

func TestExecuteWatchpointUnsupportedReturnsEmpty(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	_, reply := execCmd(t, e, Command{Kind: CmdAddBreakpoint, Addr: 0x100, BreakpointKind: 2})
	if reply != "" {
		t.Fatalf("reply = %q, want empty (unsupported)", reply)
	}
}

func TestExecuteDetachDisconnects(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	outcome, reply := execCmd(t, e, Command{Kind: CmdDetach})
	if reply != "OK" {
		t.Fatalf("reply = %q, want OK", reply)
	}
	if outcome.Disconnect == nil || outcome.Disconnect.Kind != DisconnectClient {
		t.Fatalf("outcome.Disconnect = %+v, want DisconnectClient", outcome.Disconnect)
	}
}

func TestExecuteQfThreadInfo(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	_, reply := execCmd(t, e, Command{Kind: CmdQfThreadInfo})
	if reply != "mp01.01" {
		t.Fatalf("reply = %q, want %q", reply, "mp01.01")
	}
}

func TestExecuteUnknownCommandEmptyReply(t *testing.T) {
	e := newTestExecutor(newFakeTarget())
	_, reply := execCmd(t, e, Command{Kind: CmdUnknown})
	if reply != "" {
		t.Fatalf("reply = %q, want empty", reply)
	}
}
