package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at release time; "dev" for local builds.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print gdbstubd's version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gdbstubd", version)
	},
}
