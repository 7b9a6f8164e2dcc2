package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authform",
	Short: "Register/login form server",
	Long: `authform serves a single register/login form backed by a pluggable
identity provider.

Available commands:
  serve            Start the HTTP server
  check-password   Check a password against the form's password policy
  version          Print the version

Use "authform [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
