// Package ingestion handles the filesystem side of a run: discovering input
// units, quarantining unparseable ones, and deleting consumed ones.
package ingestion

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// UnitSuffix matches the files the comment extraction stage emits.
	UnitSuffix = "_COMMENTS.txt"
	// QuarantineDirName holds units whose JSON could not be parsed, preserved
	// verbatim for manual inspection. Lives inside the input directory.
	QuarantineDirName = "_debug_bad_json"
)

// Unit is one discovered input file, read in full. Units are atomic work
// items: fully processed (and consumed or quarantined) before the next one.
type Unit struct {
	Name string
	Text string
}

// DiscoverUnits enumerates *_COMMENTS.txt files directly inside dir, sorted by
// name for deterministic processing order. Files that cannot be read are
// skipped via onSkip (which may be nil) rather than aborting the enumeration.
func DiscoverUnits(dir string, onSkip func(name string, err error)) ([]Unit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), UnitSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	units := make([]Unit, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if onSkip != nil {
				onSkip(name, err)
			}
			continue
		}
		units = append(units, Unit{Name: name, Text: string(content)})
	}
	return units, nil
}

// Quarantine moves the unit's original file into the quarantine subdirectory,
// creating it if absent. The file content is never touched.
func Quarantine(dir, name string) error {
	qdir := filepath.Join(dir, QuarantineDirName)
	if err := os.MkdirAll(qdir, 0755); err != nil {
		return fmt.Errorf("failed to create quarantine directory: %w", err)
	}
	if err := os.Rename(filepath.Join(dir, name), filepath.Join(qdir, name)); err != nil {
		return fmt.Errorf("failed to quarantine %s: %w", name, err)
	}
	return nil
}

// RemoveUnit deletes a consumed unit's source file. An already-absent file
// counts as success, so retries and races with manual cleanup are harmless.
func RemoveUnit(dir, name string) error {
	if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
