package parsing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/comments-curator/internal/types"
)

// OutcomeKind classifies what validation concluded about one unit.
type OutcomeKind int

const (
	// OutcomeFatal means the text was not JSON; the unit must be quarantined
	// with its original content intact.
	OutcomeFatal OutcomeKind = iota
	// OutcomeEmpty means the text parsed but the top-level value is not an
	// array. Non-fatal: the unit yields zero records and counts as consumed.
	OutcomeEmpty
	// OutcomeRecords means the text parsed as an array; Records holds the
	// elements that passed per-element filtering (possibly none).
	OutcomeRecords
)

// Outcome is the tagged result of validating one unit. Callers branch on Kind;
// a zero-record OutcomeRecords is deliberately distinct from OutcomeFatal so
// "nothing admitted" can never be confused with "unparseable".
type Outcome struct {
	Kind    OutcomeKind
	Records []types.Record
	Err     error // set only for OutcomeFatal
}

// Diagnostic describes a non-fatal condition hit while validating a unit.
type Diagnostic struct {
	Unit   string
	Index  int // element index within the array, -1 for unit-level conditions
	Reason string
}

func (d Diagnostic) String() string {
	if d.Index < 0 {
		return fmt.Sprintf("%s: %s", d.Unit, d.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s", d.Unit, d.Index, d.Reason)
}

// Sink receives diagnostics. Core code never logs directly; the caller decides
// where diagnostics go (stderr, a test collector, nowhere).
type Sink func(Diagnostic)

func emit(sink Sink, d Diagnostic) {
	if sink != nil {
		sink(d)
	}
}

// ParseRecords decodes sanitized text and filters its elements. An element is
// admitted iff it is a JSON object carrying both required keys; everything
// else is dropped with a diagnostic and its siblings are still processed.
func ParseRecords(sanitized, unit string, sink Sink) Outcome {
	dec := json.NewDecoder(strings.NewReader(sanitized))
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return Outcome{Kind: OutcomeFatal, Err: &SyntaxError{Unit: unit, Cause: err}}
	}
	// Content after the first value is as unparseable as a bad token inside it.
	if dec.More() {
		return Outcome{Kind: OutcomeFatal, Err: &SyntaxError{Unit: unit, Cause: errors.New("trailing content after JSON value")}}
	}

	list, ok := top.([]any)
	if !ok {
		emit(sink, Diagnostic{Unit: unit, Index: -1, Reason: "unexpected JSON format: top-level value is not a list"})
		return Outcome{Kind: OutcomeEmpty}
	}

	records := make([]types.Record, 0, len(list))
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			emit(sink, Diagnostic{Unit: unit, Index: i, Reason: "skipping non-object entry"})
			continue
		}
		rec := types.Record(obj)
		if !rec.HasRequired() {
			emit(sink, Diagnostic{Unit: unit, Index: i, Reason: "skipping entry missing required fields video_id/quote"})
			continue
		}
		records = append(records, rec)
	}

	return Outcome{Kind: OutcomeRecords, Records: records}
}
