package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auw2025/grouping/pkg/codemap"
)

var tablesFile string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the effective override tables",
	Long: `Tables prints the code-mapping and verification tables the other
commands would use, as YAML. With --tables the file is overlaid on the
built-in defaults first, so the output shows the merged result.`,
	Args: cobra.NoArgs,
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().StringVar(&tablesFile, "tables", "", "YAML override tables file")
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, _ []string) error {
	tables := codemap.DefaultTables()
	if tablesFile != "" {
		var err error
		tables, err = codemap.LoadTables(tablesFile)
		if err != nil {
			return fmt.Errorf("loading tables: %w", err)
		}
	}
	cmd.Print(tables.FormatYAML())
	return nil
}
