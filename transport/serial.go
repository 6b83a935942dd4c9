package transport

import (
	serial "github.com/daedaluz/goserial"
	"github.com/pkg/errors"
)

// Serial wraps a daedaluz/goserial Port as a gdbstub.Transport, for
// targets reached over a physical or virtual UART instead of TCP.
type Serial struct {
	port *serial.Port
}

// OpenSerial opens name (e.g. "/dev/ttyUSB0") at baud, switches it to
// raw mode, and returns it ready to hand to gdbstub.NewSession.
func OpenSerial(name string, baud serial.CFlag) (*Serial, error) {
	port, err := serial.Open(name, serial.NewOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	if err := port.MakeRaw(); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "set raw mode")
	}
	attrs, err := port.GetAttr2()
	if err != nil {
		port.Close()
		return nil, errors.Wrap(err, "get attrs")
	}
	attrs.SetSpeed(baud)
	if err := port.SetAttr2(serial.TCSANOW, attrs); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "set attrs")
	}
	return &Serial{port: port}, nil
}

// Write implements gdbstub.Transport.
func (s *Serial) Write(p []byte) (int, error) { return s.port.Write(p) }

// Flush implements gdbstub.Transport. The port is opened without an
// internal write buffer, so writes are already synchronous.
func (s *Serial) Flush() error { return nil }

// Read reads directly from the port (used by the driving loop to pump
// bytes into a Session).
func (s *Serial) Read(p []byte) (int, error) { return s.port.Read(p) }

// Close closes the underlying port.
func (s *Serial) Close() error { return s.port.Close() }
