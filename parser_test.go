package gdbstub

import "testing"

func parseOK(t *testing.T, payload string) Command {
	t.Helper()
	cmd, err := ParseCommand([]byte(payload), CapabilitySet{})
	if err != nil {
		t.Fatalf("ParseCommand(%q): %v", payload, err)
	}
	return cmd
}

func TestParseCommandBasics(t *testing.T) {
	if cmd := parseOK(t, "?"); cmd.Kind != CmdHaltReason {
		t.Fatalf("?  -> %v, want CmdHaltReason", cmd.Kind)
	}
	if cmd := parseOK(t, "g"); cmd.Kind != CmdReadRegisters {
		t.Fatalf("g -> %v, want CmdReadRegisters", cmd.Kind)
	}
	if cmd := parseOK(t, ""); cmd.Kind != CmdUnknown {
		t.Fatalf("empty -> %v, want CmdUnknown", cmd.Kind)
	}
	if cmd := parseOK(t, "!unknown!"); cmd.Kind != CmdUnknown {
		t.Fatalf("garbage -> %v, want CmdUnknown", cmd.Kind)
	}
}

func TestParseReadMemory(t *testing.T) {
	cmd := parseOK(t, "m1000,4")
	if cmd.Kind != CmdReadMemory || cmd.Addr != 0x1000 || cmd.Length != 4 {
		t.Fatalf("m1000,4 -> %+v", cmd)
	}
}

func TestParseReadMemoryMalformed(t *testing.T) {
	if _, err := ParseCommand([]byte("m1000"), CapabilitySet{}); err != ErrMalformedPacket {
		t.Fatalf("m1000 (no comma) = %v, want ErrMalformedPacket", err)
	}
}

func TestParseWriteRegister(t *testing.T) {
	cmd := parseOK(t, "P10=deadbeef")
	if cmd.Kind != CmdWriteRegister || cmd.RegNum != 0x10 || string(cmd.Data) != "deadbeef" {
		t.Fatalf("P10=deadbeef -> %+v", cmd)
	}
}

func TestParseBreakpointArchKindAuthoritative(t *testing.T) {
	cmd := parseOK(t, "Z0,8000,4")
	if cmd.Kind != CmdAddBreakpoint || cmd.BreakpointKind != 0 || cmd.Addr != 0x8000 || cmd.Length != 4 {
		t.Fatalf("Z0,8000,4 -> %+v", cmd)
	}
}

func TestParseBreakpointWithConditionList(t *testing.T) {
	cmd := parseOK(t, "Z0,8000,4;X1,01;Ysomecmd")
	if len(cmd.CondList) != 1 || len(cmd.CmdList) != 1 {
		t.Fatalf("Z with lists -> %+v", cmd)
	}
}

func TestParseVContQuery(t *testing.T) {
	if cmd := parseOK(t, "vCont?"); cmd.Kind != CmdVContQuery {
		t.Fatalf("vCont? -> %v", cmd.Kind)
	}
}

func TestParseVContActions(t *testing.T) {
	cmd := parseOK(t, "vCont;c:p1.2;s:p1.3")
	if cmd.Kind != CmdVCont {
		t.Fatalf("kind = %v, want CmdVCont", cmd.Kind)
	}
	if len(cmd.VContActions) != 2 {
		t.Fatalf("len(VContActions) = %d, want 2", len(cmd.VContActions))
	}
	if cmd.VContActions[0].Action != 'c' || cmd.VContActions[0].Tid != (ThreadID{Pid: 1, Tid: 2}) {
		t.Fatalf("action[0] = %+v", cmd.VContActions[0])
	}
	if cmd.VContActions[1].Action != 's' || cmd.VContActions[1].Tid != (ThreadID{Pid: 1, Tid: 3}) {
		t.Fatalf("action[1] = %+v", cmd.VContActions[1])
	}
}

func TestParseVContSignalAction(t *testing.T) {
	cmd := parseOK(t, "vCont;C05:2")
	if len(cmd.VContActions) != 1 {
		t.Fatalf("len(VContActions) = %d", len(cmd.VContActions))
	}
	a := cmd.VContActions[0]
	if a.Action != 'C' || a.Signal == nil || *a.Signal != SIGTRAP {
		t.Fatalf("action = %+v", a)
	}
}

func TestParseQSupportedFeatures(t *testing.T) {
	cmd := parseOK(t, "qSupported:multiprocess+;swbreak+")
	if cmd.Kind != CmdQSupported {
		t.Fatalf("kind = %v", cmd.Kind)
	}
	if len(cmd.ClientFeatures) != 2 || cmd.ClientFeatures[0] != "multiprocess+" {
		t.Fatalf("ClientFeatures = %+v", cmd.ClientFeatures)
	}
}

func TestParseQXfer(t *testing.T) {
	cmd := parseOK(t, "qXfer:features:read::0,3fff")
	if cmd.Kind != CmdQXferFeaturesRead || cmd.Offset != 0 || cmd.Length != 0x3fff {
		t.Fatalf("qXfer:features -> %+v", cmd)
	}
}

func TestParseVFileOpen(t *testing.T) {
	path := EncodeHex([]byte("/tmp/x"))
	cmd := parseOK(t, "vFile:open:"+path+",1,180")
	if cmd.Kind != CmdVFileOpen || cmd.Path != "/tmp/x" || cmd.Flags != 1 || cmd.Mode != 0x180 {
		t.Fatalf("vFile:open -> %+v", cmd)
	}
}

func TestParseHPacket(t *testing.T) {
	cmd := parseOK(t, "Hg0")
	if cmd.Kind != CmdSetThread || cmd.ThreadOp != 'g' || cmd.Tid != AnyThread {
		t.Fatalf("Hg0 -> %+v", cmd)
	}
}

func TestParseReverseExec(t *testing.T) {
	if cmd := parseOK(t, "bc"); cmd.Kind != CmdReverseContinue {
		t.Fatalf("bc -> %v", cmd.Kind)
	}
	if cmd := parseOK(t, "bs"); cmd.Kind != CmdReverseStep {
		t.Fatalf("bs -> %v", cmd.Kind)
	}
}
