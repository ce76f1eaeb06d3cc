package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbmrq/globe/internal/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show detailed version information for globe.

Displays the current version, commit hash, build date,
and Go/platform information.

Examples:
  globe version           # Show detailed version info
  globe version --check   # Check for updates`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("check", "c", false, "Check for available updates")
	versionCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
}

// runVersion handles the version command.
func runVersion(cmd *cobra.Command, args []string) error {
	build := version.Current(Version, Commit, Date)

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(build); err != nil {
			return err
		}
	} else {
		cmd.Println(build.Long())
	}

	check, _ := cmd.Flags().GetBool("check")
	if check {
		return checkForUpdate(cmd, version.NewReleaseSource())
	}
	return nil
}

// checkForUpdate checks for available updates and reports.
func checkForUpdate(cmd *cobra.Command, releases *version.ReleaseSource) error {
	cmd.Println("")
	cmd.Println("Checking for updates...")

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	release, err := releases.Newer(ctx, Version)
	if err != nil {
		return err
	}

	if release == nil {
		cmd.Println("✓ You are running the latest version.")
		return nil
	}

	cmd.Println("")
	cmd.Printf("📦 A new version is available: %s (current: %s)\n", release.Tag, Version)
	cmd.Printf("Release notes: %s\n", release.URL)
	return nil
}
