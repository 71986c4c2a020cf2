package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auw2025/grouping/cmd/grouping/app"
	"github.com/auw2025/grouping/pkg/codemap"
	"github.com/auw2025/grouping/pkg/pipeline"
	"github.com/auw2025/grouping/pkg/records"
	"github.com/auw2025/grouping/pkg/tabular"
)

// diagnosticColumns is the header of the diagnostics CSV.
var diagnosticColumns = []string{"row", "reason"}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a workload export into output records",
	Long: `Reconcile reads a workload export and a subject reference table,
resolves every grouping to a subject code, verifies the result against
the form level, and writes the output records as CSV.

With --class-list the run operates per student: workload rows feed a
frequency index, unplaceable groupings are deferred by group, and each
roster assignment is recovered from the deferred store or matched by
substring before the extended-maths pass. Rows that cannot be processed
are written to the diagnostics file instead of aborting the run.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().String("workload", "", "workload export CSV (required)")
	reconcileCmd.Flags().String("reference", "", "subject reference CSV (required)")
	reconcileCmd.Flags().String("class-list", "", "class roster CSV (enables the per-student flow)")
	reconcileCmd.Flags().String("tables", "", "YAML override tables file")
	reconcileCmd.Flags().StringP("output", "o", "", "output records CSV")
	reconcileCmd.Flags().String("diagnostics", "", "unprocessed rows CSV")
	reconcileCmd.Flags().String("academic-year", "", "academic year stamped on every record")
	reconcileCmd.Flags().String("term", "", "term stamped on every record")

	bindings := map[string]string{
		"workload_file":    "workload",
		"reference_file":   "reference",
		"class_list_file":  "class-list",
		"tables_file":      "tables",
		"output_file":      "output",
		"diagnostics_file": "diagnostics",
		"academic_year":    "academic-year",
		"term":             "term",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, reconcileCmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
		}
	}

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	config, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(config)

	if config.WorkloadFile == "" {
		return fmt.Errorf("--workload is required")
	}
	if config.ReferenceFile == "" {
		return fmt.Errorf("--reference is required")
	}

	workload, err := tabular.ReadCSV(config.WorkloadFile)
	if err != nil {
		return fmt.Errorf("reading workload: %w", err)
	}
	reference, err := tabular.ReadCSV(config.ReferenceFile)
	if err != nil {
		return fmt.Errorf("reading reference: %w", err)
	}

	var classList *tabular.Dataset
	if config.ClassListFile != "" {
		classList, err = tabular.ReadCSV(config.ClassListFile)
		if err != nil {
			return fmt.Errorf("reading class list: %w", err)
		}
	}

	tables := codemap.DefaultTables()
	if config.TablesFile != "" {
		tables, err = codemap.LoadTables(config.TablesFile)
		if err != nil {
			return fmt.Errorf("loading tables: %w", err)
		}
	}

	builder := records.NewBuilder(
		records.WithAcademicYear(config.AcademicYear),
		records.WithTerm(config.Term),
	)

	p := pipeline.New(tables, reference,
		pipeline.WithLogger(&logger),
		pipeline.WithBuilder(builder))

	result, err := p.Run(workload, classList)
	if err != nil {
		return err
	}

	if err := tabular.WriteCSV(config.OutputFile, records.Columns, records.Rows(result.Records)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(result.Unprocessed) > 0 {
		rows := make([]tabular.Row, 0, len(result.Unprocessed))
		for _, diag := range result.Unprocessed {
			rows = append(rows, tabular.Row{
				"row":    strconv.Itoa(diag.Row),
				"reason": diag.Reason,
			})
		}
		if err := tabular.WriteCSV(config.DiagnosticsFile, diagnosticColumns, rows); err != nil {
			return fmt.Errorf("writing diagnostics: %w", err)
		}
	}

	printSummary(cmd, config, result)
	return nil
}

// printSummary renders the run counters on stdout.
func printSummary(cmd *cobra.Command, config *app.Config, result *pipeline.Result) {
	cmd.Printf("Processed %d record(s) to %s\n", result.Processed(), config.OutputFile)
	if result.FirstLevelInvalid > 0 {
		cmd.Printf("Corrected %d structurally invalid assignment(s)\n", result.FirstLevelInvalid)
	}
	if result.DeferredStored > 0 || result.DeferredRecovered > 0 {
		cmd.Printf("Deferred %d grouping(s), recovered %d\n", result.DeferredStored, result.DeferredRecovered)
	}
	if len(result.Unprocessed) > 0 {
		cmd.Printf("Withheld %d row(s), see %s\n", len(result.Unprocessed), config.DiagnosticsFile)
	}
}
