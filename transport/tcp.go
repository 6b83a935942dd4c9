// Package transport provides concrete gdbstub.Transport implementations
// and connection-accepting loops for TCP, Unix-domain, and serial
// links, in the spirit of the teacher's gdbServer/gdbHandle accept
// loop, generalized to take any address family and hand each
// connection to a caller-supplied handler instead of one hard-coded
// machine.
package transport

import (
	"bufio"
	"net"

	"github.com/pkg/errors"
)

// Conn wraps a net.Conn as a gdbstub.Transport: buffered writes,
// flushed explicitly after each reply.
type Conn struct {
	nc net.Conn
	w  *bufio.Writer
}

// NewConn wraps nc.
func NewConn(nc net.Conn) *Conn {
	return &Conn{nc: nc, w: bufio.NewWriter(nc)}
}

// Write implements gdbstub.Transport.
func (c *Conn) Write(p []byte) (int, error) { return c.w.Write(p) }

// Flush implements gdbstub.Transport.
func (c *Conn) Flush() error { return c.w.Flush() }

// Read reads directly from the underlying connection (used by the
// driving loop to pump bytes into a Session).
func (c *Conn) Read(p []byte) (int, error) { return c.nc.Read(p) }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.nc.Close() }

// RemoteAddr returns the connection's remote address.
func (c *Conn) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }

// Handler is called once per accepted connection. Per spec.md §1/§6,
// a GDB target-side stub serves one client at a time, so ServeTCP
// blocks inside Handler until it returns before accepting the next
// connection — matching the teacher's own "we intentionally don't
// handle the connection in a goroutine" comment in gdbHandle.
type Handler func(*Conn) error

// ServeTCP listens on addr and invokes handler for each connection in
// turn, sequentially, for as long as the listener stays open.
func ServeTCP(addr string, handler Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	defer ln.Close()
	for {
		nc, err := ln.Accept()
		if err != nil {
			return errors.Wrap(err, "accept")
		}
		conn := NewConn(nc)
		if err := handler(conn); err != nil {
			conn.Close()
			return errors.Wrap(err, "handle connection")
		}
		conn.Close()
	}
}
