// Package store persists the deduplicated master table as a delimited text
// file. The table is loaded, merged in memory, and rewritten wholesale; there
// is no streaming append.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonathan/comments-curator/internal/types"
)

// keySeparator joins the dedupe key fields. The unit separator cannot appear
// in sanitized cell values (the sanitizer strips control characters).
const keySeparator = "\x1f"

// Load reads the master table at path. A missing file yields an empty table
// with the fixed schema; an existing file's header wins for that table so the
// output always round-trips its own header.
func Load(path string) (*types.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return types.NewTable(types.ColumnOrder()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open master table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return types.NewTable(types.ColumnOrder()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read master header: %w", err)
	}

	table := types.NewTable(header)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read master row: %w", err)
		}
		table.Append(padRow(row, len(header)))
	}
	return table, nil
}

// Merge concatenates master rows followed by batch rows and drops duplicate
// (video_id, quote) pairs, keeping the first occurrence. Master rows come
// first, so pre-existing rows always win over newly merged ones. Batch rows
// are aligned to the master's columns by name; columns the batch lacks are
// filled with the empty-string sentinel.
func Merge(master, batch *types.Table) *types.Table {
	out := types.NewTable(master.Columns)
	idIdx := out.ColumnIndex(types.FieldVideoID)
	quoteIdx := out.ColumnIndex(types.FieldQuote)

	seen := make(map[string]struct{}, master.Len()+batch.Len())
	appendRow := func(row []string) {
		if idIdx >= 0 && quoteIdx >= 0 {
			key := row[idIdx] + keySeparator + row[quoteIdx]
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
		}
		out.Append(row)
	}

	for _, row := range master.Rows {
		appendRow(padRow(row, len(out.Columns)))
	}
	for _, row := range batch.Rows {
		appendRow(alignRow(row, batch, out.Columns))
	}
	return out
}

// Persist writes the full table to path, overwriting any previous file and
// creating the parent directory if needed. The header row always carries the
// table's column names in order.
func Persist(table *types.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create master table: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		f.Close()
		return fmt.Errorf("failed to write master header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write master row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush master table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close master table: %w", err)
	}
	return nil
}

// padRow extends or truncates a row to the given width.
func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// alignRow maps a batch row onto the target column order by column name.
func alignRow(row []string, batch *types.Table, columns []string) []string {
	aligned := make([]string, len(columns))
	for i, col := range columns {
		if idx := batch.ColumnIndex(col); idx >= 0 && idx < len(row) {
			aligned[i] = row[idx]
		}
	}
	return aligned
}
