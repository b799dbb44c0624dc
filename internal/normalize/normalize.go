// Package normalize coerces admitted records into the fixed master-table
// schema: every row gets every column, publish timestamps are canonicalized,
// and the batch is sorted newest-first.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/comments-curator/internal/types"
)

// timestampLayouts are tried in order when parsing publish_date values. LLM
// output mostly carries RFC 3339 (the YouTube API format), but date-only and
// space-separated variants show up often enough to matter.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePublishDate parses a publish_date cell permissively. It reports false
// for values no layout matches; the caller substitutes the null sentinel
// instead of failing.
func ParsePublishDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CoerceString renders a decoded JSON value as a table cell. Scalars keep
// their literal form (json.Number is not re-rendered through float64); null
// becomes the empty-string sentinel; nested values fall back to compact JSON.
func CoerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

// Batch builds a uniform table from a run's records: missing columns are
// filled with the empty-string sentinel, unrecognized keys are dropped, and
// columns follow types.ColumnOrder exactly. Parseable publish dates are
// rewritten as UTC RFC 3339 and the rows are stably sorted by that column
// descending, unparseable values last. Normalizing an already-normalized
// batch yields an identical batch.
func Batch(records []types.Record) *types.Table {
	table := types.NewTable(types.ColumnOrder())
	dateIdx := table.ColumnIndex(types.FieldPublishDate)

	type sortableRow struct {
		cells     []string
		published time.Time
		parseable bool
	}

	rows := make([]sortableRow, 0, len(records))
	for _, rec := range records {
		cells := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			if v, ok := rec[col]; ok {
				cells[i] = CoerceString(v)
			}
		}

		row := sortableRow{cells: cells}
		if dateIdx >= 0 {
			if t, ok := ParsePublishDate(cells[dateIdx]); ok {
				cells[dateIdx] = t.Format(time.RFC3339)
				row.published = t
				row.parseable = true
			} else {
				cells[dateIdx] = ""
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].parseable != rows[j].parseable {
			return rows[i].parseable
		}
		return rows[i].published.After(rows[j].published)
	})

	for _, row := range rows {
		table.Append(row.cells)
	}
	return table
}
