package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/comments-curator/internal/sanitize"
	"github.com/jonathan/comments-curator/internal/types"
)

// collectDiagnostics returns a sink that appends into the given slice.
func collectDiagnostics(diags *[]Diagnostic) Sink {
	return func(d Diagnostic) {
		*diags = append(*diags, d)
	}
}

func TestParseRecordsAdmitsValidEntries(t *testing.T) {
	input := `[{"video_id":"a","quote":"hi"},{"video_id":"b","quote":"yo","video_title":"T"}]`

	outcome := ParseRecords(input, "x_COMMENTS.txt", nil)

	require.Equal(t, OutcomeRecords, outcome.Kind)
	require.Len(t, outcome.Records, 2)
	assert.Equal(t, "a", outcome.Records[0][types.FieldVideoID])
	assert.Equal(t, "hi", outcome.Records[0][types.FieldQuote])
	assert.Equal(t, "T", outcome.Records[1][types.FieldVideoTitle])
}

func TestParseRecordsFatalVsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  OutcomeKind
	}{
		{"Garbage text is fatal", "not json at all", OutcomeFatal},
		{"Truncated array is fatal", `[{"video_id":"a"`, OutcomeFatal},
		{"Trailing content is fatal", `[] trailing prose`, OutcomeFatal},
		{"Top-level object is empty", `{"not":"a list"}`, OutcomeEmpty},
		{"Top-level scalar is empty", `"just a string"`, OutcomeEmpty},
		{"Top-level number is empty", `42`, OutcomeEmpty},
		{"Empty array yields records outcome", `[]`, OutcomeRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := ParseRecords(tt.input, "unit", nil)
			assert.Equal(t, tt.kind, outcome.Kind)
			if tt.kind == OutcomeFatal {
				assert.Error(t, outcome.Err)
				var synErr *SyntaxError
				assert.ErrorAs(t, outcome.Err, &synErr)
			} else {
				assert.NoError(t, outcome.Err)
			}
		})
	}
}

func TestParseRecordsFiltersMissingRequiredFields(t *testing.T) {
	input := `[{"video_id":"a","quote":"q1"},{"video_id":"b"},{"quote":"q2"}]`

	var diags []Diagnostic
	outcome := ParseRecords(input, "unit", collectDiagnostics(&diags))

	require.Equal(t, OutcomeRecords, outcome.Kind)
	require.Len(t, outcome.Records, 1)
	assert.Equal(t, "a", outcome.Records[0][types.FieldVideoID])

	require.Len(t, diags, 2)
	assert.Equal(t, 1, diags[0].Index)
	assert.Equal(t, 2, diags[1].Index)
}

func TestParseRecordsFiltersNonObjectEntries(t *testing.T) {
	input := `["scalar",[1,2],{"video_id":"a","quote":"q"},null]`

	var diags []Diagnostic
	outcome := ParseRecords(input, "unit", collectDiagnostics(&diags))

	require.Equal(t, OutcomeRecords, outcome.Kind)
	assert.Len(t, outcome.Records, 1)
	assert.Len(t, diags, 3)
}

func TestParseRecordsEmptyEmitsUnitLevelDiagnostic(t *testing.T) {
	var diags []Diagnostic
	outcome := ParseRecords(`{"not":"a list"}`, "unit", collectDiagnostics(&diags))

	assert.Equal(t, OutcomeEmpty, outcome.Kind)
	require.Len(t, diags, 1)
	assert.Equal(t, -1, diags[0].Index)
	assert.Equal(t, "unit: unexpected JSON format: top-level value is not a list", diags[0].String())
}

func TestParseRecordsKeepsNumbersVerbatim(t *testing.T) {
	input := `[{"video_id":"a","quote":"q","sentiment_score":0.90}]`

	outcome := ParseRecords(input, "unit", nil)

	require.Equal(t, OutcomeRecords, outcome.Kind)
	require.Len(t, outcome.Records, 1)
	// json.Number preserves the literal, so 0.90 does not become 0.9.
	assert.Equal(t, "0.90", fmtNumber(outcome.Records[0]["sentiment_score"]))
}

func fmtNumber(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return ""
}

func TestSanitizeThenParseFencedInput(t *testing.T) {
	raw := "```json\n[{\"video_id\":\"a\",\"quote\":\"hi\"}]\n```"

	outcome := ParseRecords(sanitize.Clean(raw), "unit", nil)

	require.Equal(t, OutcomeRecords, outcome.Kind)
	require.Len(t, outcome.Records, 1)
	assert.Equal(t, "a", outcome.Records[0][types.FieldVideoID])
	assert.Equal(t, "hi", outcome.Records[0][types.FieldQuote])
}

func TestSanitizeThenParseTrailingCommas(t *testing.T) {
	raw := `[{"video_id":"a","quote":"hi",},]`

	outcome := ParseRecords(sanitize.Clean(raw), "unit", nil)

	require.Equal(t, OutcomeRecords, outcome.Kind)
	assert.Len(t, outcome.Records, 1)
}
