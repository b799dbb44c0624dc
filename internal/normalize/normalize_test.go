package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/comments-curator/internal/types"
)

func TestParsePublishDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"RFC3339", "2024-05-01T10:30:00Z", "2024-05-01T10:30:00Z", true},
		{"RFC3339 with offset", "2024-05-01T12:30:00+02:00", "2024-05-01T10:30:00Z", true},
		{"RFC3339 with fraction", "2024-05-01T10:30:00.250Z", "2024-05-01T10:30:00Z", true},
		{"No zone", "2024-05-01T10:30:00", "2024-05-01T10:30:00Z", true},
		{"Space separated", "2024-05-01 10:30:00", "2024-05-01T10:30:00Z", true},
		{"Date only", "2024-05-01", "2024-05-01T00:00:00Z", true},
		{"Surrounding whitespace", "  2024-05-01  ", "2024-05-01T00:00:00Z", true},
		{"Garbage", "yesterday-ish", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePublishDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got.Format(time.RFC3339))
			}
		})
	}
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"String passes through", "hello", "hello"},
		{"Null becomes sentinel", nil, ""},
		{"Number keeps literal", json.Number("0.90"), "0.90"},
		{"Bool", true, "true"},
		{"Float fallback", 2.5, "2.5"},
		{"Nested value becomes JSON", []any{"a", "b"}, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceString(tt.input))
		})
	}
}

func TestBatchFillsAndOrdersColumns(t *testing.T) {
	records := []types.Record{
		{types.FieldQuote: "q1", types.FieldVideoID: "a", "unrecognized": "dropped"},
		{types.FieldVideoID: "b", types.FieldQuote: "q2", types.FieldVideoTitle: "Title"},
	}

	table := Batch(records)

	require.Equal(t, types.ColumnOrder(), table.Columns)
	require.Equal(t, 2, table.Len())
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Columns))
	}
	assert.Equal(t, []string{"a", "", "", "", "q1"}, table.Rows[0])
	assert.Equal(t, []string{"b", "Title", "", "", "q2"}, table.Rows[1])
}

func TestBatchSortsByPublishDateDescendingNullsLast(t *testing.T) {
	records := []types.Record{
		{types.FieldVideoID: "old", types.FieldQuote: "q", types.FieldPublishDate: "2023-01-01T00:00:00Z"},
		{types.FieldVideoID: "null1", types.FieldQuote: "q", types.FieldPublishDate: "not a date"},
		{types.FieldVideoID: "new", types.FieldQuote: "q", types.FieldPublishDate: "2024-06-01T00:00:00Z"},
		{types.FieldVideoID: "null2", types.FieldQuote: "q"},
	}

	table := Batch(records)
	idIdx := table.ColumnIndex(types.FieldVideoID)
	dateIdx := table.ColumnIndex(types.FieldPublishDate)

	require.Equal(t, 4, table.Len())
	assert.Equal(t, "new", table.Rows[0][idIdx])
	assert.Equal(t, "old", table.Rows[1][idIdx])
	// Unparseable dates sort last, preserving their input order, with the
	// value replaced by the null sentinel.
	assert.Equal(t, "null1", table.Rows[2][idIdx])
	assert.Equal(t, "null2", table.Rows[3][idIdx])
	assert.Equal(t, "", table.Rows[2][dateIdx])
}

func TestBatchIsIdempotent(t *testing.T) {
	records := []types.Record{
		{types.FieldVideoID: "a", types.FieldQuote: "q1", types.FieldPublishDate: "2024-05-01 10:30:00"},
		{types.FieldVideoID: "b", types.FieldQuote: "q2", types.FieldPublishDate: "junk"},
	}

	first := Batch(records)

	// Feed the normalized rows back through as records.
	again := make([]types.Record, 0, first.Len())
	for _, row := range first.Rows {
		rec := types.Record{}
		for i, col := range first.Columns {
			rec[col] = row[i]
		}
		again = append(again, rec)
	}
	second := Batch(again)

	assert.Equal(t, first, second)
}

func TestBatchOfNothing(t *testing.T) {
	table := Batch(nil)
	assert.Equal(t, types.ColumnOrder(), table.Columns)
	assert.Equal(t, 0, table.Len())
}
