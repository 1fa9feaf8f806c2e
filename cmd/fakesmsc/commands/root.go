// Package commands implements the fakesmsc CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/aaronwong1989/fakesmsc/comm/logging"
)

var log = logging.GetDefaultLogger()

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "fakesmsc",
	Short: "fakesmsc - single-session SMPP responder for client tests",
	Long: `fakesmsc emulates a minimal SMSC: it accepts one SMPP client, answers
bind_transceiver, enquire_link, submit_sm and unbind, and can push a deliver_sm
into the bound session.

Use "fakesmsc [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command; called once by main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $FAKESMSC_CONF_PATH)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
