// Package gdbstub implements the target side of the GDB Remote Serial
// Protocol (RSP): a transport-agnostic session engine that speaks RSP to
// a GDB or LLDB client so the client can inspect and control a program
// under debug.
//
// The package does no I/O of its own. A caller supplies a Transport (the
// byte sink/source) and a Target (the debug-target facade: registers,
// memory, execution control, breakpoints and optional extensions) and
// drives the session forward by calling Session.Pump in a loop.
package gdbstub
