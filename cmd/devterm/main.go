// Devterm is the interactive terminal of a development server session.
//
// It listens for single-key commands while the bundler runs: open the
// project on Android or in the iOS simulator, toggle production mode,
// restart the bundler, send a link to a phone, sign in or out and open
// DevTools.
//
// Usage:
//
//	devterm [start] [project-dir] [flags]
//
// Running without a subcommand starts the interactive session for the
// current directory. See 'devterm --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/devterm/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devterm [project-dir]",
	Short: "Interactive terminal for a development server session",
	Long: `Devterm turns the terminal running your development server into a
control surface. Press a single key to open the project on a device, toggle
production mode, restart the bundler, send a link to your phone, or sign in.

If no command is specified, an interactive session starts for the project
in the current directory.`,
	Version:       version.Full(),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runStart,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to stderr")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("devterm %s (commit: %s)\n", version.Version, version.Commit)
	},
}
