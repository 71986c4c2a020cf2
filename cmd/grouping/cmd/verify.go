package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auw2025/grouping/pkg/codemap"
	"github.com/auw2025/grouping/pkg/verify"
)

var verifyTablesFile string

var verifyCmd = &cobra.Command{
	Use:   "verify <class> <sub-code>",
	Short: "Structurally verify a single class/sub-code pair",
	Long: `Verify runs the two-level structural check for one assignment:
the form level derived from the class field must agree with the code
family of the sub-code, and curriculum renames are applied afterwards.
It prints the (possibly corrected) sub-code and whether the original
pair was structurally valid.`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyTablesFile, "tables", "", "YAML override tables file")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	tables := codemap.DefaultTables()
	if verifyTablesFile != "" {
		var err error
		tables, err = codemap.LoadTables(verifyTablesFile)
		if err != nil {
			return fmt.Errorf("loading tables: %w", err)
		}
	}

	verifier := verify.New(tables)
	result := verifier.Verify(args[0], args[1])

	if result.Valid {
		cmd.Printf("valid: %s\n", result.SubCode)
	} else {
		cmd.Printf("invalid: %s -> %s\n", args[1], result.SubCode)
	}
	return nil
}
