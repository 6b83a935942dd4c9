package gdbstub

import (
	"strconv"
	"strings"
)

// Special thread/process id values, per spec.md §3.
const (
	ThreadIDAny = 0
	ThreadIDAll = -1
)

// ThreadID is a (process, thread) pair. Internally every thread id is
// multiprocess-shaped; ToWire drops the process half when the session
// has not negotiated multiprocess support with the client (spec.md §9,
// "Multiprocess is always on under the hood").
type ThreadID struct {
	Pid int32
	Tid int32
}

// AnyThread and AllThreads are the two non-positive sentinel ids.
var (
	AnyThread  = ThreadID{Pid: ThreadIDAny, Tid: ThreadIDAny}
	AllThreads = ThreadID{Pid: ThreadIDAll, Tid: ThreadIDAll}
)

// formatSignedHex renders v as RSP expects thread-id halves to appear,
// per spec.md §8's Resume+stop scenario (e.g. "thread:p01.01"): hex,
// zero-padded to at least two digits (so AnyThread's 0 is "00").
// Negative values, such as AllThreads' -1, are rendered unpadded with a
// leading '-' ("-1"), since padding a sign has no sensible meaning.
func formatSignedHex(v int32) string {
	if v < 0 {
		return "-" + strconv.FormatInt(int64(-v), 16)
	}
	s := strconv.FormatInt(int64(v), 16)
	if len(s) < 2 {
		s = "0" + s
	}
	return s
}

// ToWire renders the thread id the way it appears in an outgoing RSP
// packet. When multiprocess is false, the process half is always
// dropped, per spec.md §3's ThreadId invariant.
func (t ThreadID) ToWire(multiprocess bool) string {
	if !multiprocess {
		return formatSignedHex(t.Tid)
	}
	return "p" + formatSignedHex(t.Pid) + "." + formatSignedHex(t.Tid)
}

// ParseThreadID parses a thread-id field as it appears after an `H`,
// `T`, `vCont` action, or similar command: either `p<pid>.<tid>` or a
// bare `<tid>` (process defaults to AnyThread's pid, 0, meaning "the
// current/any process").
func ParseThreadID(s string) (ThreadID, error) {
	if s == "" {
		return ThreadID{}, ErrMalformedPacket
	}
	if s[0] == 'p' || s[0] == 'P' {
		rest := s[1:]
		dot := strings.IndexByte(rest, '.')
		if dot < 0 {
			pid, err := parseSignedHex(rest)
			if err != nil {
				return ThreadID{}, err
			}
			return ThreadID{Pid: pid, Tid: ThreadIDAny}, nil
		}
		pid, err := parseSignedHex(rest[:dot])
		if err != nil {
			return ThreadID{}, err
		}
		tid, err := parseSignedHex(rest[dot+1:])
		if err != nil {
			return ThreadID{}, err
		}
		return ThreadID{Pid: pid, Tid: tid}, nil
	}
	tid, err := parseSignedHex(s)
	if err != nil {
		return ThreadID{}, err
	}
	return ThreadID{Pid: ThreadIDAny, Tid: tid}, nil
}

func parseSignedHex(s string) (int32, error) {
	if s == "" {
		return 0, ErrMalformedPacket
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	v, err := strconv.ParseInt(s, 16, 33)
	if err != nil {
		return 0, ErrMalformedPacket
	}
	if neg {
		v = -v
	}
	return int32(v), nil
}
