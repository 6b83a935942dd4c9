package gdbstub

import "testing"

func TestThreadIDToWire(t *testing.T) {
	tid := ThreadID{Pid: 3, Tid: 7}
	if got := tid.ToWire(false); got != "07" {
		t.Fatalf("ToWire(false) = %q, want %q", got, "07")
	}
	if got := tid.ToWire(true); got != "p03.07" {
		t.Fatalf("ToWire(true) = %q, want %q", got, "p03.07")
	}
}

func TestThreadIDToWireNegative(t *testing.T) {
	if got := AllThreads.ToWire(true); got != "p-1.-1" {
		t.Fatalf("ToWire(AllThreads) = %q, want %q", got, "p-1.-1")
	}
}

func TestParseThreadIDBare(t *testing.T) {
	tid, err := ParseThreadID("1f")
	if err != nil {
		t.Fatalf("ParseThreadID: %v", err)
	}
	if tid.Tid != 0x1f || tid.Pid != ThreadIDAny {
		t.Fatalf("ParseThreadID(%q) = %+v", "1f", tid)
	}
}

func TestParseThreadIDMultiprocess(t *testing.T) {
	tid, err := ParseThreadID("p2.3")
	if err != nil {
		t.Fatalf("ParseThreadID: %v", err)
	}
	if tid.Pid != 2 || tid.Tid != 3 {
		t.Fatalf("ParseThreadID(p2.3) = %+v", tid)
	}
}

func TestParseThreadIDNegative(t *testing.T) {
	tid, err := ParseThreadID("p-1.-1")
	if err != nil {
		t.Fatalf("ParseThreadID: %v", err)
	}
	if tid != AllThreads {
		t.Fatalf("ParseThreadID(p-1.-1) = %+v, want AllThreads", tid)
	}
}

func TestParseThreadIDEmpty(t *testing.T) {
	if _, err := ParseThreadID(""); err != ErrMalformedPacket {
		t.Fatalf("ParseThreadID(\"\") = %v, want ErrMalformedPacket", err)
	}
}
