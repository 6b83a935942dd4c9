package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aykevl/gdbstub/internal/minilog"
)

var (
	flagConfig   string
	flagLoglevel string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "gdbstubd",
	Short: "a GDB Remote Serial Protocol target-side debug stub",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initConfig()
		level := minilog.LevelInt(viper.GetString("loglevel"))
		if viper.GetBool("verbose") {
			minilog.AddLogger("stderr", os.Stderr, level, true)
		}
		return nil
	},
	SilenceUsage: true,
}

func initConfig() {
	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
	} else {
		viper.SetConfigName("gdbstubd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/gdbstubd")
	}
	viper.SetEnvPrefix("GDBSTUBD")
	viper.AutomaticEnv()
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("verbose", true)
	viper.SetDefault("packet-size", 4096)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./gdbstubd.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLoglevel, "loglevel", "info", "debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", true, "log to stderr")
	viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(versionCmd)
}
