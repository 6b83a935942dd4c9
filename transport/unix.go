package transport

import (
	"net"
	"os"

	"github.com/pkg/errors"
)

// ServeUnix listens on a Unix-domain socket at path, removing any
// stale socket file left behind by a previous run, and invokes handler
// for each connection in turn (same one-at-a-time discipline as
// ServeTCP).
func ServeUnix(path string, handler Handler) error {
	if _, err := os.Stat(path); err == nil {
		os.Remove(path)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", path)
	}
	defer ln.Close()
	defer os.Remove(path)
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
