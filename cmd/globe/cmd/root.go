// Package cmd provides the CLI commands for globe.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gerrors "github.com/dbmrq/globe/internal/errors"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "globe",
	Short: "Browse the countries of the world from your terminal",
	Long: `globe is a terminal client for a country catalogue backend.

Sign in, scroll through every country with infinite paging, search by
name or ISO code and open a detailed view of any country. The same
backend is available to scripts through the countries subcommands.

Running globe with no subcommand opens the interactive browser.`,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default: ~/.config/globe/config.yaml)")
	flags.String("api-url", "", "Backend base URL (overrides config and GLOBE_API_URL)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("locale", "", "Display language: pt-BR or en")
	flags.Bool("ephemeral", false, "Keep the session in memory only")
}

// runRoot is called when globe is invoked with no subcommand.
// It opens the TUI, same as "globe browse".
func runRoot(cmd *cobra.Command, args []string) error {
	return runBrowse(cmd, args)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("globe {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, gerrors.Format(err))
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}
