// Package main provides the entry point for the grouping CLI tool.
package main

import (
	"os"

	"github.com/auw2025/grouping/cmd/grouping/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
