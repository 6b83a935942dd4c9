package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/aykevl/gdbstub"
)

var flagMonitorAddr string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "interactive console for sending qRcmd monitor commands to a running gdbstubd",
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&flagMonitorAddr, "addr", "localhost:7333", "gdbstubd TCP address")
}

// runMonitor dials a live session and speaks just enough RSP (ack mode,
// qRcmd) to forward each typed line as a monitor command, printing
// whatever the target streams back.
func runMonitor(cmd *cobra.Command, args []string) error {
	conn, err := net.Dial("tcp", flagMonitorAddr)
	if err != nil {
		return err
	}
	defer conn.Close()
	r := bufio.NewReader(conn)

	input := liner.NewLiner()
	defer input.Close()
	input.SetCtrlCAborts(true)

	prompt := color.New(color.FgCyan).Sprintf("gdbstubd:%s$ ", flagMonitorAddr)
	fmt.Println("connected. type a monitor command, \"threads\" to list threads, or ^d to exit")

	for {
		line, err := input.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		input.AppendHistory(line)

		if line == "threads" {
			if err := printThreadTable(conn, r); err != nil {
				return err
			}
			continue
		}

		payload := "qRcmd," + gdbstub.EncodeHex([]byte(line))
		if err := sendPacket(conn, payload); err != nil {
			return err
		}
		reply, err := readPacket(r)
		if err != nil {
			return err
		}
		printMonitorReply(reply)
	}
}

// printThreadTable is the monitor console's local "threads" command: it
// walks qfThreadInfo/qThreadExtraInfo itself (rather than forwarding to
// qRcmd, which only the target interprets) and renders the result as an
// ASCII table, in the style of phenix's PrintTableOf* helpers.
func printThreadTable(conn net.Conn, r *bufio.Reader) error {
	if err := sendPacket(conn, "qfThreadInfo"); err != nil {
		return err
	}
	reply, err := readPacket(r)
	if err != nil {
		return err
	}
	reply = strings.TrimPrefix(reply, "m")
	reply = strings.TrimPrefix(reply, "l")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Thread", "Extra info"})

	if reply != "" {
		for _, tid := range strings.Split(reply, ",") {
			info, err := threadExtraInfo(conn, r, tid)
			if err != nil {
				return err
			}
			table.Append([]string{tid, info})
		}
	}

	table.Render()
	return nil
}

func threadExtraInfo(conn net.Conn, r *bufio.Reader, tid string) (string, error) {
	if err := sendPacket(conn, "qThreadExtraInfo,"+tid); err != nil {
		return "", err
	}
	reply, err := readPacket(r)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", nil
	}
	dst := make([]byte, len(reply)/2)
	n, err := gdbstub.DecodeHex(dst, []byte(reply))
	if err != nil {
		return "", err
	}
	return string(dst[:n]), nil
}

func sendPacket(w io.Writer, body string) error {
	_, err := fmt.Fprintf(w, "$%s#%s", body, gdbstub.Checksum([]byte(body)))
	return err
}

// readPacket is a minimal client-side reader: enough to pull one
// `$...#cc` packet back out, skipping a leading ack byte if present.
func readPacket(r *bufio.Reader) (string, error) {
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if c == '+' || c == '-' {
			continue
		}
		if c != '$' {
			continue
		}
		break
	}
	body, err := r.ReadString('#')
	if err != nil {
		return "", err
	}
	body = strings.TrimSuffix(body, "#")
	// discard the two checksum digits
	if _, err := r.Discard(2); err != nil {
		return "", err
	}
	return body, nil
}

func printMonitorReply(body string) {
	switch {
	case strings.HasPrefix(body, "OK"):
		fmt.Println(color.GreenString("OK"))
	case strings.HasPrefix(body, "E"):
		fmt.Println(color.RedString(body))
	default:
		fmt.Println(body)
	}
}
