// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/comments-curator/internal/parsing"
	"github.com/jonathan/comments-curator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxDiagnosticsToShow is the default number of diagnostics to display
	maxDiagnosticsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs a human-readable summary of one ingestion run.
func (p *Printer) PrintRunSummary(summary *types.RunSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:          %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Files seen:   %d\n", summary.FilesSeen))
	sb.WriteString(fmt.Sprintf("Consumed:     %d\n", summary.Consumed))
	sb.WriteString(fmt.Sprintf("Quarantined:  %d\n", summary.Quarantined))
	sb.WriteString(fmt.Sprintf("Admitted:     %d\n", summary.Admitted))
	if summary.Dropped > 0 {
		sb.WriteString(fmt.Sprintf("Dropped:      %d\n", summary.Dropped))
	}

	if summary.MergeSkipped {
		sb.WriteString("\nNo valid rows parsed - master table untouched.")
	} else {
		sb.WriteString(fmt.Sprintf("\nMaster rows:  %d → %d (+%d)",
			summary.MasterBefore, summary.MasterAfter, summary.MasterAfter-summary.MasterBefore))
		if summary.ArchivedRows > 0 {
			sb.WriteString(fmt.Sprintf("\nArchived:     %d", summary.ArchivedRows))
		}
	}

	p.printBox("INGESTION RUN SUMMARY", sb.String())
}

// PrintOutcome outputs the validation outcome for a single unit, with up to
// maxDiagnosticsToShow of the diagnostics emitted while validating it.
func (p *Printer) PrintOutcome(unit string, outcome parsing.Outcome, diags []parsing.Diagnostic) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Unit: %s\n\n", unit))

	switch outcome.Kind {
	case parsing.OutcomeFatal:
		sb.WriteString("Outcome: FATAL - would be quarantined\n")
		if outcome.Err != nil {
			sb.WriteString(fmt.Sprintf("  %v\n", outcome.Err))
		}
	case parsing.OutcomeEmpty:
		sb.WriteString("Outcome: EMPTY - zero records, unit consumed\n")
	case parsing.OutcomeRecords:
		sb.WriteString(fmt.Sprintf("Outcome: %d record(s) admitted\n", len(outcome.Records)))
	}

	if len(diags) > 0 {
		sb.WriteString("\nDiagnostics:\n")
		count := min(len(diags), maxDiagnosticsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", diags[i].String()))
		}
		if len(diags) > maxDiagnosticsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(diags)-maxDiagnosticsToShow))
		}
	}

	p.printBox("VALIDATION OUTCOME", strings.TrimSuffix(sb.String(), "\n"))
}
