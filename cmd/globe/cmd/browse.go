package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbmrq/globe/internal/logging"
	"github.com/dbmrq/globe/internal/tui"
)

// browseCmd represents the browse command.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive country browser",
	Long: `Open the interactive country browser.

Without a session the login screen is shown first. The session is
shared with every other globe process: signing in or out elsewhere is
picked up while the browser is open.

Examples:
  globe                     # Same as globe browse
  globe browse --ephemeral  # Do not persist the session`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse is the main entry point for the browse command.
func runBrowse(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, true, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := tui.NewRunner(ctx, tui.Options{
		Session:         e.session,
		Account:         e.account,
		Fetcher:         e.client,
		Storage:         e.store,
		Translator:      e.tr,
		Theme:           string(e.cfg.UI.Theme),
		ScrollThreshold: e.cfg.UI.ScrollThreshold,
	})
	if err := runner.Run(ctx); err != nil {
		logging.Error("TUI exited with error", "error", err)
		return err
	}
	logging.Info("globe exiting")
	return nil
}
