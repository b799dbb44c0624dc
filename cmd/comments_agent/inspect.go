package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/comments-curator/internal/observability"
	"github.com/jonathan/comments-curator/internal/parsing"
	"github.com/jonathan/comments-curator/internal/sanitize"
	"github.com/jonathan/comments-curator/internal/schemas"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dry-run the repair and validation steps on a single file",
	Long: `Reads one comment file, applies the same repair and validation steps the
ingest command uses, and reports what would happen: admitted, quarantined, or
consumed empty. The file is never moved, deleted, or merged.`,
	RunE: runInspect,
}

var (
	inspectFile   string
	inspectStrict bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "Path to the comment file to inspect (required)")
	inspectCmd.Flags().BoolVar(&inspectStrict, "strict", false, "Also check records against the JSON Schema")

	inspectCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(inspectFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	unit := filepath.Base(inspectFile)

	var diags []parsing.Diagnostic
	sink := func(d parsing.Diagnostic) {
		diags = append(diags, d)
	}

	cleaned := sanitize.Clean(string(raw))
	outcome := parsing.ParseRecords(cleaned, unit, sink)

	if inspectStrict && outcome.Kind == parsing.OutcomeRecords {
		path := schemas.ResolveSchemaPath(schemas.RecordSchemaFile)
		if path == "" {
			return fmt.Errorf("record schema not found; run from the repository root")
		}
		validator, err := schemas.NewRecordValidator(path)
		if err != nil {
			return fmt.Errorf("failed to load record schema: %w", err)
		}
		for i, rec := range outcome.Records {
			if verr := validator.ValidateRecord(rec); verr != nil {
				diags = append(diags, parsing.Diagnostic{Unit: unit, Index: i, Reason: verr.Error()})
			}
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintOutcome(unit, outcome, diags)
	return nil
}
