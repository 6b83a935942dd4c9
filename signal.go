package gdbstub

// Signal is the 8-bit value GDB uses to describe why a target stopped.
// RSP transports arbitrary values here; the names below are the ones
// GDB's own signal table gives special treatment, not an exhaustive
// enum.
type Signal uint8

// Commonly used signal numbers, per GDB's gdb/signals.def ordering as
// seen on the wire (these are *Unix* signal numbers, not GDB's internal
// enum indices).
const (
	SIGINT  Signal = 2
	SIGILL  Signal = 4
	SIGTRAP Signal = 5
	SIGABRT Signal = 6
	SIGFPE  Signal = 8
	SIGKILL Signal = 9
	SIGBUS  Signal = 10
	SIGSEGV Signal = 11
	SIGPIPE Signal = 13
	SIGALRM Signal = 14
	SIGTERM Signal = 15
	SIGSTOP Signal = 19
)
