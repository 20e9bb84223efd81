// Package cli implements exoctl's command tree, structured after
// kornnellio-runc-Go's cmd/root.go: a cobra root
// command with persistent flags, a PersistentPreRunE that wires up
// logging, and subcommands registered via init().
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	globalDebug  bool
	globalFormat string
)

// Log is the logger every subcommand logs through, configured in
// PersistentPreRunE the way runc-go's setupLogging configures its
// package-level default.
var Log = logrus.New()

var rootCmd = &cobra.Command{
	Use:           "exoctl",
	Short:         "drive the exokernel syscall dispatch core",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globalFormat, "log-format", "text", "log output format (text or json)")
}

func setupLogging() {
	if globalDebug {
		Log.SetLevel(logrus.DebugLevel)
	}
	if globalFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
}
