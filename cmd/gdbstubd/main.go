// Command gdbstubd is a demo GDB Remote Serial Protocol target: it
// serves a softcore.Machine over TCP (or a Unix socket), replacing the teacher's single-firmware, single-flag main.go
// with a small Cobra command tree.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
