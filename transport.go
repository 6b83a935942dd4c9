package gdbstub

// Transport is the minimal byte sink a Session writes replies to. It
// carries no read side: per spec.md §4.G the session is driven by the
// caller feeding inbound bytes into Session.Pump one at a time (or in a
// batch via PumpBytes), so the core never blocks on a read itself. A
// concrete transport (TCP, a Unix socket, a serial port) only needs to
// get these bytes onto the wire.
type Transport interface {
	// Write sends p verbatim. Implementations should buffer internally
	// if that helps throughput; Flush is called at the end of every
	// reply so buffering must not delay delivery past that point.
	Write(p []byte) (int, error)
	// Flush pushes any buffered bytes out. Called once per reply/ack.
	Flush() error
}
