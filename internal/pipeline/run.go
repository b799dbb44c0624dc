// Package pipeline provides the high-level orchestration for one ingestion
// run: discover units, sanitize and validate each, quarantine or consume,
// then normalize, merge and persist.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/comments-curator/internal/db"
	"github.com/jonathan/comments-curator/internal/ingestion"
	"github.com/jonathan/comments-curator/internal/normalize"
	"github.com/jonathan/comments-curator/internal/observability"
	"github.com/jonathan/comments-curator/internal/parsing"
	"github.com/jonathan/comments-curator/internal/sanitize"
	"github.com/jonathan/comments-curator/internal/schemas"
	"github.com/jonathan/comments-curator/internal/store"
	"github.com/jonathan/comments-curator/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Step and category names carried on progress events.
const (
	StepScan      = "scan"
	StepUnit      = "unit"
	StepNormalize = "normalize"
	StepMerge     = "merge"
	StepPersist   = "persist"

	CategoryIngestion  = "ingestion"
	CategoryValidation = "validation"
	CategoryMerge      = "merge"
)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	InDir       string
	OutDir      string
	MasterName  string
	DatabaseURL string
	Strict      bool
	Verbose     bool
	OnProgress  ProgressCallback
	Diagnostics parsing.Sink // defaults to a stderr writer
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step, category, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
		})
	}
}

// RunPipeline orchestrates the full ingestion run. Units are processed
// strictly one at a time: each is read, sanitized, validated, and consumed or
// quarantined before the next one starts. The master table is loaded, merged
// in memory, and rewritten wholesale only when at least one record was
// admitted; a run with nothing to append never touches the output path.
func RunPipeline(ctx context.Context, opts RunOptions) (*types.RunSummary, error) {
	info, err := os.Stat(opts.InDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input directory not found: %s", opts.InDir)
	}

	printer := observability.NewPrinter(os.Stdout)
	diag := opts.Diagnostics
	if diag == nil {
		diag = func(d parsing.Diagnostic) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", d)
		}
	}

	runID := uuid.New()
	summary := &types.RunSummary{RunID: runID.String()}

	// Optional archive database; connection failure degrades to a warning.
	var database *db.DB
	if opts.DatabaseURL != "" {
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without archiving...\n")
			database = nil
		} else {
			defer database.Close()
			if err := database.CreateRun(ctx, runID, opts.InDir, opts.OutDir); err != nil {
				fmt.Printf("Warning: Failed to record archive run: %v\n", err)
			}
		}
	}

	units, err := ingestion.DiscoverUnits(opts.InDir, func(name string, err error) {
		diag(parsing.Diagnostic{Unit: name, Index: -1, Reason: fmt.Sprintf("unreadable, skipping: %v", err)})
	})
	if err != nil {
		return nil, err
	}
	summary.FilesSeen = len(units)
	fmt.Printf("Found %d files to parse in %s\n", len(units), opts.InDir)
	emitProgress(&opts, runID.String(), StepScan, CategoryIngestion,
		fmt.Sprintf("Discovered %d units", len(units)))

	var recordValidator *schemas.RecordValidator
	if opts.Strict {
		if path := schemas.ResolveSchemaPath(schemas.RecordSchemaFile); path != "" {
			recordValidator, err = schemas.NewRecordValidator(path)
			if err != nil {
				diag(parsing.Diagnostic{Index: -1, Reason: fmt.Sprintf("strict mode disabled: %v", err)})
			}
		} else {
			diag(parsing.Diagnostic{Index: -1, Reason: "strict mode disabled: record schema not found"})
		}
	}

	var collected []types.Record
	for _, unit := range units {
		cleaned := sanitize.Clean(unit.Text)
		outcome := parsing.ParseRecords(cleaned, unit.Name, diag)

		if outcome.Kind == parsing.OutcomeFatal {
			diag(parsing.Diagnostic{Unit: unit.Name, Index: -1,
				Reason: fmt.Sprintf("moving bad JSON to quarantine: %v", outcome.Err)})
			if qerr := ingestion.Quarantine(opts.InDir, unit.Name); qerr != nil {
				diag(parsing.Diagnostic{Unit: unit.Name, Index: -1, Reason: qerr.Error()})
			}
			summary.Quarantined++
			emitProgress(&opts, runID.String(), StepUnit, CategoryValidation,
				fmt.Sprintf("Quarantined %s", unit.Name))
			continue
		}

		admitted := outcome.Records
		if recordValidator != nil {
			kept := make([]types.Record, 0, len(admitted))
			for i, rec := range admitted {
				if verr := recordValidator.ValidateRecord(rec); verr != nil {
					diag(parsing.Diagnostic{Unit: unit.Name, Index: i, Reason: verr.Error()})
					summary.Dropped++
					continue
				}
				kept = append(kept, rec)
			}
			admitted = kept
		}

		collected = append(collected, admitted...)
		summary.Admitted += len(admitted)

		if derr := ingestion.RemoveUnit(opts.InDir, unit.Name); derr != nil {
			diag(parsing.Diagnostic{Unit: unit.Name, Index: -1, Reason: derr.Error()})
		}
		summary.Consumed++
		emitProgress(&opts, runID.String(), StepUnit, CategoryValidation,
			fmt.Sprintf("Parsed %d rows from %s", len(admitted), unit.Name))
	}

	if len(collected) == 0 {
		summary.MergeSkipped = true
		fmt.Printf("No valid rows parsed - nothing to append.\n")
		if database != nil {
			_ = database.CompleteRun(ctx, runID, "empty", 0)
		}
		if opts.Verbose {
			printer.PrintRunSummary(summary)
		}
		return summary, nil
	}

	batch := normalize.Batch(collected)
	emitProgress(&opts, runID.String(), StepNormalize, CategoryMerge,
		fmt.Sprintf("Normalized %d rows", batch.Len()))

	masterPath := filepath.Join(opts.OutDir, opts.MasterName)
	master, err := store.Load(masterPath)
	if err != nil {
		if database != nil {
			_ = database.CompleteRun(ctx, runID, "failed", 0)
		}
		return summary, err
	}
	summary.MasterBefore = master.Len()

	merged := store.Merge(master, batch)
	summary.MasterAfter = merged.Len()
	emitProgress(&opts, runID.String(), StepMerge, CategoryMerge,
		fmt.Sprintf("Merged to %d rows (%d new)", merged.Len(), merged.Len()-master.Len()))

	if err := store.Persist(merged, masterPath); err != nil {
		if database != nil {
			_ = database.CompleteRun(ctx, runID, "failed", 0)
		}
		return summary, err
	}
	fmt.Printf("Saved master: %s | total rows: %d\n", masterPath, merged.Len())
	emitProgress(&opts, runID.String(), StepPersist, CategoryMerge,
		fmt.Sprintf("Saved %s", masterPath))

	if database != nil {
		archived, aerr := database.ArchiveTable(ctx, runID, merged)
		if aerr != nil {
			fmt.Printf("Warning: Failed to archive rows: %v\n", aerr)
		}
		summary.ArchivedRows = archived
		_ = database.CompleteRun(ctx, runID, "completed", archived)
	}

	if opts.Verbose {
		printer.PrintRunSummary(summary)
	}
	return summary, nil
}
