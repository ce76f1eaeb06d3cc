// Package main is the entry point for the globe CLI application.
package main

import "github.com/dbmrq/globe/cmd/globe/cmd"

// Version information - set by build flags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Date = date
	cmd.Execute()
}
