package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aykevl/gdbstub"
	"github.com/aykevl/gdbstub/internal/minilog"
	"github.com/aykevl/gdbstub/internal/softcore"
	"github.com/aykevl/gdbstub/transport"
)

var (
	flagAddr       string
	flagUnixSocket string
	flagRAMSize    int
	flagPacketSize int
)

var serveCmd = &cobra.Command{
	Use:   "serve [firmware]",
	Short: "serve a soft-core target over the GDB remote protocol",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "localhost:7333", "TCP address to listen on")
	serveCmd.Flags().StringVar(&flagUnixSocket, "unix", "", "Unix-domain socket path (overrides --addr)")
	serveCmd.Flags().IntVar(&flagRAMSize, "ram", 32, "RAM size in kB")
	serveCmd.Flags().IntVar(&flagPacketSize, "packet-size", 4096, "maximum RSP packet size")
}

func runServe(cmd *cobra.Command, args []string) error {
	machine := softcore.New(flagRAMSize * 1024)
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		machine.LoadAt(0, data)
	}

	if flagUnixSocket != "" {
		minilog.Info("listening on unix:%s", flagUnixSocket)
		return transport.ServeUnix(flagUnixSocket, func(c *transport.Conn) error {
			return serveConn(machine, c)
		})
	}
	minilog.Info("listening on tcp:%s", flagAddr)
	return transport.ServeTCP(flagAddr, func(c *transport.Conn) error {
		return serveConn(machine, c)
	})
}

// serveConn runs one GDB session to completion over conn: it is the
// caller-driven loop that keeps gdbstub.Session non-blocking, pumping
// inbound bytes in and writing outbound bytes out as the wire allows,
// generalizing the teacher's `for packet := range packetChan` loop to
// the new step-function session API.
func serveConn(machine *softcore.Machine, conn *transport.Conn) error {
	session := gdbstub.NewSession(machine, conn, flagPacketSize)
	buf := make([]byte, 1)
	for session.State() != gdbstub.StateDisconnected {
		n, err := conn.Read(buf)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if n == 0 {
			continue
		}
		if err := session.Pump(buf[0]); err != nil {
			return err
		}
		if session.State() == gdbstub.StateRunning {
			r, err := machine.HaltReason(gdbstub.ThreadID{Pid: 1, Tid: 1})
			if err != nil {
				return err
			}
			if err := session.ReportStop(r); err != nil {
				return err
			}
		}
	}
	if d := session.Disconnected(); d != nil {
		minilog.Info("session ended: %v", d)
	}
	return nil
}
