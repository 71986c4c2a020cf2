// Package cmd implements the grouping command-line interface.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "grouping",
	Short: "Scheduling record reconciliation",
	Long: `Grouping reconciles raw scheduling exports into normalized
subject-code records.

It resolves grouping labels against a subject reference table, applies
code-mapping overrides, structurally verifies each assignment against
its form level, and emits a deterministic CSV of output records plus a
diagnostics file for rows it could not process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion stores build metadata for the version template.
func SetVersion(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("grouping %s (commit %s, built %s)\n", version, commit, date))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./.grouping.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (warnings and errors only)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (auto, json, console)")
	rootCmd.PersistentFlags().String("log-output", "", "log output (stderr, stdout, or file path)")

	for _, flag := range []string{"verbose", "quiet", "log-level", "log-format", "log-output"} {
		if err := viper.BindPFlag(strings.ReplaceAll(flag, "-", "_"), rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
		}
	}
}

// initConfig points Viper at an explicit config file set via --config.
// The rest of the configuration loading happens in app.LoadConfig.
func initConfig() {
	if configFile != "" {
		viper.Set("config", configFile)
	}
}
